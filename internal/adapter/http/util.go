package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"

	"climatebuddy/internal/app"
)

const genericErrorMessage = "An unexpected error occurred. Please try again."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeAuthFailure renders an auth failure in the envelope the client
// expects: the error is data, not a bare HTTP error page.
func writeAuthFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// writeAuthError maps service sentinel errors to HTTP statuses and renders
// them via writeAuthFailure. Unknown errors collapse to a generic message so
// internals never leak to the client.
func writeAuthError(w http.ResponseWriter, err error) {
	writeAuthFailure(w, statusForAuthError(err), messageForAuthError(err))
}

func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrInvalidToken),
		errors.Is(err, app.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, app.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrMissingCredentials),
		errors.Is(err, app.ErrAllFieldsRequired),
		errors.Is(err, app.ErrInvalidEmail),
		errors.Is(err, app.ErrPasswordTooShort),
		errors.Is(err, app.ErrPasswordTooWeak),
		errors.Is(err, app.ErrPasswordMismatch),
		errors.Is(err, app.ErrTermsNotAgreed),
		errors.Is(err, app.ErrEmailRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageForAuthError(err error) string {
	if statusForAuthError(err) == http.StatusInternalServerError {
		return genericErrorMessage
	}
	return err.Error()
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		// SPA fallback: unknown paths serve the app shell.
		http.ServeFile(w, r, indexPath)
	})
}
