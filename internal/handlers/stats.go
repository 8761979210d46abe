package handlers

import (
	"net/http"

	"github.com/grandparser/backend/internal/report"
)

// getStats returns the full aggregate payload for the caller.
func (r *Router) getStats(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	s, err := r.stats.ForUser(req.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	respondData(w, http.StatusOK, s)
}

// getStatsReport renders the caller's stats as a downloadable PDF.
func (r *Router) getStatsReport(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	s, err := r.stats.ForUser(req.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	pdf, err := report.Generate(user, s, r.cfg.DashboardURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics-report.pdf"`)
	w.Write(pdf)
}
