package http

import (
	"net/http"

	"github.com/leshachaplin/convgate/internal/extract"
)

// eventTypeParam carries the affiliate network's event-type code. It acts as
// the explicit key override for this family.
const eventTypeParam = "ev"

func (h *Handler) Postback(w http.ResponseWriter, r *http.Request) {
	extracted := extract.Postback(r.URL.Query())
	event, err := h.processor.Process(
		r.Context(),
		r.URL.Query().Get(eventTypeParam),
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
