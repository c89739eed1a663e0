// Package vals holds the scalar coercion helpers shared by the extractors and
// the event builder. Upstream payloads are loose about types (identifiers
// arrive as JSON numbers or strings depending on platform version), so every
// read goes through String before anything else touches it.
package vals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String coerces an arbitrary decoded JSON value to a string. nil yields "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		// Non-scalar where a scalar was expected counts as absent.
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// Amount parses a monetary amount tolerating a comma decimal separator
// ("150,50" == "150.50"). Unparseable or non-finite input reports ok=false,
// never zero.
func Amount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// UnixTime parses a unix-seconds timestamp; only positive integers count.
func UnixTime(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
