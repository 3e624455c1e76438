package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/usecase/media"
	"github.com/talkora/chat-media-go/internal/validation"
)

type MaterializeMediaRequest struct {
	MessageID      string `json:"message_id" validate:"required,uuid"`
	MediaID        string `json:"media_id" validate:"required"`
	ConversationID string `json:"conversation_id" validate:"required"`
}

// InProgressResponse is returned with a 202 when another worker holds the
// fetch lease for the same message.
type InProgressResponse struct {
	Status string `json:"status"`
	Retry  bool   `json:"retry"`
}

func MaterializeMediaHandler(svc port.MediaMaterializer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MaterializeMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Errorf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		msgID, err := uuid.Parse(req.MessageID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid UUID: %w", err))
			return
		}

		input := port.MaterializeInput{
			MessageID:      db.UUID(msgID),
			MediaID:        req.MediaID,
			ConversationID: req.ConversationID,
		}
		out, err := svc.MaterializeMedia(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, media.ErrFetchInProgress):
				RespondJSON(w, http.StatusAccepted, InProgressResponse{Status: "in_progress", Retry: true})
				logger.Infof(r.Context(), "⏳  Fetch already in progress for message #%s", input.MessageID)
			case errors.Is(err, media.ErrMediaNotFound):
				WriteError(w, http.StatusNotFound, "Media not found", nil)
			case errors.Is(err, media.ErrValidation):
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
			case errors.Is(err, media.ErrProviderMetadata), errors.Is(err, media.ErrProviderDownload):
				WriteError(w, http.StatusBadGateway, fmt.Sprintf("could not fetch media for message #%s from provider", input.MessageID), err)
			default:
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not materialize media for message #%s", input.MessageID), err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Successfully materialized media for message #%s", input.MessageID)
	}
}
