package middleware

import (
	"net/http"

	"notepad-server/internal/events"
)

const ClientIDHeader = "X-Client-ID"

// OriginMiddleware tags the request context with the caller's websocket
// client id, so change notifications skip the tab that made the change.
func OriginMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := r.Header.Get(ClientIDHeader)
			if clientID == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(events.WithOrigin(r.Context(), clientID)))
		})
	}
}
