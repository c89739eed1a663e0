package http

import (
	"io"
	"net/http"

	"github.com/leshachaplin/convgate/internal/extract"
)

// overrideParam is the query parameter that lets one physical callback URL
// serve many logical events. It beats whatever the payload self-describes.
const overrideParam = "e"

func (h *Handler) FunnelEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.error(err, w)
		return
	}

	extracted := extract.Funnel(body)
	event, err := h.processor.Process(
		r.Context(),
		r.URL.Query().Get(overrideParam),
		extracted,
		connectionContext(r),
	)
	if err != nil {
		h.error(err, w)
		return
	}

	_ = encodeJSONResponse(w, http.StatusOK, eventResponse{
		OK:      true,
		Event:   event.Name,
		EventID: event.EventID,
	})
}

// FunnelPing answers the upstream platform's callback-URL verification.
func (h *Handler) FunnelPing(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK"))
}
