package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grandparser/backend/internal/templates"
)

// listTemplates returns the templates visible to the caller: every public
// template plus the caller's own private ones.
func (r *Router) listTemplates(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	list, err := r.templates.ListVisible(req.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"templates": list,
	})
}

// getTemplate returns one visible template. Private templates owned by
// other users yield the same 404 as missing ones.
func (r *Router) getTemplate(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	id := mux.Vars(req)["id"]
	tpl, err := r.templates.Get(req.Context(), id, user)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Template not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch template")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"template": tpl,
	})
}

// createTemplate creates a private template owned by the caller.
func (r *Router) createTemplate(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	var body templates.CreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	tpl, err := r.templates.Create(req.Context(), user, body)
	if err != nil {
		var verr *templates.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"template": tpl,
	})
}
