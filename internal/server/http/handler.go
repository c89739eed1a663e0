package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/leshachaplin/convgate/internal/apierror"
	"github.com/leshachaplin/convgate/internal/service"
)

type Handler struct {
	processor service.Processor
	logger    zerolog.Logger
}

func NewHandler(processor service.Processor, logger zerolog.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

type eventResponse struct {
	OK      bool   `json:"ok"`
	Event   string `json:"event"`
	EventID string `json:"event_id"`
}

func (h *Handler) error(err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	apiErr := apierror.FromError(err)

	w.WriteHeader(apiErr.StatusCode())
	if err = json.NewEncoder(w).Encode(apiErr); err != nil {
		h.logger.Error().Err(err).Msg("failed to write error response")
	}
}
