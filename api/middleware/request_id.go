package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes the inbound request id, or generates one, and threads it
// through the response header and the request-scoped logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
