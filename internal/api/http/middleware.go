package http

import (
	"net/http"
	"strings"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AuthMiddleware resolves the caller for routes whose security level requires
// an access token. The level is looked up by "METHOD /path-template".
func AuthMiddleware(auth service.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := config.GetSecurityLevel(routeKey(r))
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r)
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, false, "Not authorized")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !service.IsHandled(err) {
					logger.ErrorContext(r.Context(), "Authentication failed", "error", err)
				}
				writeMessage(w, http.StatusUnauthorized, false, "Not authorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func routeKey(r *http.Request) string {
	path := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			path = tpl
		}
	}
	return r.Method + " " + path
}

// extractToken accepts both "Bearer <token>" and a bare token
func extractToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

const headerRequestID = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags the request with an id (X-Request-ID or a fresh uuid)
// and logs one line per request
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := logger.WithRequestID(r.Context(), id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
