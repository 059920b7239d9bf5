package adapthttp

import (
	"errors"
	"net/http"

	"climatebuddy/internal/domain"
)

func (s *Server) handleCommunityPosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := intQuery(r, "limit", 20)
		posts, err := s.community.List(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": posts})

	case http.MethodPost:
		user := userFromContext(r)

		var body struct {
			Content string `json:"content"`
			Type    string `json:"type"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		post, err := s.community.Create(r.Context(), user.ID, body.Content, body.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post": post})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCommunityLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	likes, err := s.community.Like(r.Context(), body.ID)
	if errors.Is(err, domain.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": body.ID, "likes": likes})
}
