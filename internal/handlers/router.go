package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grandparser/backend/internal/config"
	"github.com/grandparser/backend/internal/documents"
	"github.com/grandparser/backend/internal/identity"
	"github.com/grandparser/backend/internal/ingest"
	"github.com/grandparser/backend/internal/middleware"
	"github.com/grandparser/backend/internal/models"
	"github.com/grandparser/backend/internal/stats"
	"github.com/grandparser/backend/internal/templates"
	"github.com/grandparser/backend/internal/workflow"
)

// Router wraps the mux router and the services behind the HTTP surface.
type Router struct {
	*mux.Router
	cfg       *config.Config
	resolver  *identity.Resolver
	templates *templates.Service
	documents *documents.Service
	ingest    *ingest.Service
	stats     *stats.Service
	webhook   *workflow.WebhookInvoker
	testmode  *workflow.TestInvoker
}

// Deps carries everything the router needs.
type Deps struct {
	Config    *config.Config
	Resolver  *identity.Resolver
	Templates *templates.Service
	Documents *documents.Service
	Ingest    *ingest.Service
	Stats     *stats.Service
	Webhook   *workflow.WebhookInvoker
}

// NewRouter creates the HTTP router with all routes mounted.
func NewRouter(d Deps) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		cfg:       d.Config,
		resolver:  d.Resolver,
		templates: d.Templates,
		documents: d.Documents,
		ingest:    d.Ingest,
		stats:     d.Stats,
		webhook:   d.Webhook,
		testmode:  workflow.NewTestInvoker(),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Authenticated API
	api := r.PathPrefix("/").Subrouter()
	api.Use(middleware.Auth(d.Config.SessionSecret))

	api.HandleFunc("/documents", r.listDocuments).Methods("GET")
	api.HandleFunc("/documents/{id}", r.getDocument).Methods("GET")
	api.HandleFunc("/documents/{id}/file", r.getDocumentFile).Methods("GET")

	api.HandleFunc("/upload", r.upload).Methods("POST")
	api.HandleFunc("/upload-test", r.uploadTest).Methods("POST")

	api.HandleFunc("/templates", r.listTemplates).Methods("GET")
	api.HandleFunc("/templates", r.createTemplate).Methods("POST")
	api.HandleFunc("/templates/{id}", r.getTemplate).Methods("GET")

	api.HandleFunc("/stats", r.getStats).Methods("GET")
	api.HandleFunc("/stats/report", r.getStatsReport).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// currentUser resolves the authenticated subject to a User row. Writes
// the error response itself and returns nil when resolution fails.
func (r *Router) currentUser(w http.ResponseWriter, req *http.Request) *models.User {
	subject := middleware.Subject(req.Context())
	if subject == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}

	user := r.resolver.Resolve(req.Context(), subject)
	if user == nil {
		respondError(w, http.StatusInternalServerError, "Failed to get user information")
		return nil
	}
	return user
}

// respondJSON sends a success envelope
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondData wraps a payload in the {success, data} envelope
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError sends a failure envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
