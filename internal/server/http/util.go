package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/leshachaplin/convgate/internal/domain"
)

func encodeJSONResponse[T any](w http.ResponseWriter, code int, data T) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

func connectionContext(req *http.Request) domain.ConnectionContext {
	return domain.ConnectionContext{
		IP:        getClientIP(req),
		UserAgent: req.Header.Get("User-Agent"),
	}
}

// getClientIP prefers the first entry of X-Forwarded-For over the socket
// address, since the gateway normally sits behind a proxy and the socket
// peer is the proxy itself.
func getClientIP(req *http.Request) string {
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
