// Package identity normalizes and one-way-hashes the PII-bearing fields of a
// conversion event. The receiving system matches identities across independent
// submitters by exact hash equality, so normalization must stay bit-exact:
// a submitter that forgets to lowercase an email silently stops matching.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lowercases.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePhone strips every character that is not a decimal digit.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Hash returns the lowercase hex sha256 of the pre-image, or "" when the
// pre-image is empty. Callers must omit the field instead of sending a hash
// of the empty string.
func Hash(preimage string) string {
	if preimage == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])
}
