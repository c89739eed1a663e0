package service

import (
	"strings"

	"github.com/leshachaplin/convgate/internal/domain"
)

// ResolveKey picks the event key for a request. The caller-supplied override
// wins because it is operator-controlled and unambiguous; the payload title
// is a fallback for funnels that cannot customize their callback URL per
// step. "" means unresolved.
func ResolveKey(override string, extracted domain.ExtractedVariables) string {
	if key := canonKey(override); key != "" {
		return key
	}
	return canonKey(extracted.Title)
}

func canonKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
