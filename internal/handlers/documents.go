package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/grandparser/backend/internal/documents"
)

// listDocuments returns one page of the caller's documents.
func (r *Router) listDocuments(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	page, limit, err := paginationParams(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	window := documents.NormalizePage(page, limit)

	docs, total, err := r.documents.List(req.Context(), user, window)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     total,
		"page":      window.Number,
		"limit":     window.Limit,
	})
}

// getDocument returns one document with its template and result joined.
func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	id := mux.Vars(req)["id"]
	doc, err := r.documents.Get(req.Context(), id, user)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch document")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"document": doc,
	})
}

// getDocumentFile streams the stored file back as an attachment.
func (r *Router) getDocumentFile(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	id := mux.Vars(req)["id"]
	file, err := r.documents.GetFile(req.Context(), id, user)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer file.Body.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	io.Copy(w, file.Body)
}

func paginationParams(req *http.Request) (int, int, error) {
	page := 1
	limit := documents.DefaultLimit

	if raw := req.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
		page = n
	}
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
		limit = n
	}
	return page, limit, nil
}
