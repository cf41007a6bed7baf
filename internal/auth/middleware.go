package auth

import (
	"errors"
	"net"
	"net/http"
	"strings"

	apperrors "studio/pkg/errors"
	httputil "studio/pkg/http"
	"studio/pkg/logger"
	"studio/pkg/middleware"
)

const bearerPrefix = "Bearer "

// Middleware attaches the principal of a valid bearer token to the request
// context. Requests without a token continue anonymously; a bad token is 401.
func Middleware(tokens *Tokens, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(header, bearerPrefix) {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Authorization header must use the Bearer scheme"))
				return
			}

			p, _, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				msg := "Invalid session token"
				if errors.Is(err, ErrExpiredToken) {
					msg = "Session token expired"
				}
				log.Warn("Rejected session token",
					"request_id", middleware.RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized(msg))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// PrincipalKey scopes per-caller state such as idempotency keys.
func PrincipalKey(r *http.Request) string {
	if p, ok := FromContext(r.Context()); ok {
		return "user:" + p.UserID
	}
	return ""
}

// ClientKey partitions rate limits by principal, falling back to the remote address.
func ClientKey(r *http.Request) string {
	if key := PrincipalKey(r); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
