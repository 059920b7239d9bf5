package adapthttp

import (
	"net/http"

	"climatebuddy/internal/domain"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleProfileGet(w, r)
	case http.MethodPut:
		s.handleProfileUpdate(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	profile, err := s.auth.GetUserProfile(r.Context(), user.ID)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profile,
	})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	var patch domain.ProfilePatch
	if err := parseJSON(r, &patch); err != nil {
		writeAuthFailure(w, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := s.auth.UpdateUserProfile(r.Context(), user.ID, patch)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profile,
		"message": "Profile updated successfully",
	})
}
