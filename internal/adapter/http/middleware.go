package adapthttp

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"climatebuddy/internal/app"
	"climatebuddy/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// tokenFromRequest extracts the session token from the Authorization header
// (Bearer scheme) or, failing that, the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

// authMiddleware resolves the session token to a user and stores it in the
// request context. Requests without a valid session get 401 with the auth
// error rendered as data.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if disabled (for tests)
		if s.disableAuth {
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), userContextKey, &domain.PublicUser{ID: "test-user", Name: "Test User"})))
			return
		}

		token := tokenFromRequest(r)
		if token == "" {
			writeAuthFailure(w, http.StatusUnauthorized, app.ErrInvalidToken.Error())
			return
		}

		user, err := s.auth.ValidateToken(r.Context(), token)
		if errors.Is(err, app.ErrInvalidToken) || errors.Is(err, app.ErrTokenExpired) || errors.Is(err, app.ErrUserNotFound) {
			writeAuthError(w, err)
			return
		}
		if err != nil {
			writeAuthFailure(w, http.StatusInternalServerError, genericErrorMessage)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user placed by authMiddleware.
func userFromContext(r *http.Request) *domain.PublicUser {
	user, _ := r.Context().Value(userContextKey).(*domain.PublicUser)
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs method, path, status, and duration per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
