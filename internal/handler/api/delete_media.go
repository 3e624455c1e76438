package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/talkora/chat-media-go/internal/api_context"
	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/usecase/media"
)

func DeleteMediaHandler(svc port.MediaDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.MessageIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "message ID is required", nil)
			return
		}

		if err := svc.DeleteMedia(r.Context(), id); err != nil {
			if errors.Is(err, media.ErrMediaNotFound) {
				WriteError(w, http.StatusNotFound, "Media not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not delete media for message #%s", id), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Successfully deleted media for message #%s", id)
	}
}
