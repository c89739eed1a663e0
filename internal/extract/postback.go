package extract

import (
	"net/url"

	"github.com/leshachaplin/convgate/internal/domain"
)

// postbackParams is the fixed whitelist of query parameters copied into the
// variable bag. Anything else on the URL is ignored.
var postbackParams = []string{
	"click_id",
	"lead_id",
	"amount",
	"first_deposit_amount",
	"currency",
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_content",
	"fbclid",
	"fbp",
	"fbc",
	"email",
	"phone",
	"reg_time",
	"deposit_time",
	"event_time",
}

// Postback extracts the canonical variable record from an affiliate-postback
// request's query parameters. The click identifier doubles as the
// conversation-id slot; the event-type code ("ev") is an explicit override
// handled by the caller, not part of the bag.
func Postback(query url.Values) domain.ExtractedVariables {
	bag := make(map[string]string, len(postbackParams))
	for _, name := range postbackParams {
		if v := query.Get(name); v != "" {
			bag[name] = v
		}
	}

	return domain.ExtractedVariables{
		Vars:           bag,
		ConversationID: bag["click_id"],
		Source:         domain.ActionSourceWebsite,
	}
}
