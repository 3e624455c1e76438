package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/usecase/media"
)

// maxUploadBytes caps the whole multipart body. The largest per-category
// ceiling is 100MB for documents; the extra headroom covers part framing.
const maxUploadBytes = 101 << 20

func UploadMediaHandler(svc port.MediaUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart payload", err)
			return
		}

		conversationID := r.FormValue("conversation_id")
		if conversationID == "" {
			WriteError(w, http.StatusBadRequest, "conversation_id is required", nil)
			return
		}
		businessID := r.FormValue("business_id")
		if businessID == "" {
			WriteError(w, http.StatusBadRequest, "business_id is required", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "file is required", err)
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "could not read uploaded file", err)
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}

		input := port.UploadInput{
			Data:           data,
			Filename:       header.Filename,
			MimeType:       mimeType,
			ConversationID: conversationID,
			BusinessID:     businessID,
		}
		out, err := svc.UploadMedia(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, media.ErrValidation):
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
			case errors.Is(err, media.ErrProviderUpload):
				WriteError(w, http.StatusBadGateway, fmt.Sprintf("could not deliver file %q to provider", header.Filename), err)
			default:
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not upload file %q", header.Filename), err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Successfully uploaded file %q as message #%s", header.Filename, out.MessageID)
	}
}
