package adapthttp

import (
	"net/http"
)

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	city := r.URL.Query().Get("city")
	days := intQuery(r, "days", 30)

	data, err := s.dashboard.GetData(r.Context(), city, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
