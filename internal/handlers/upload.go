package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/grandparser/backend/internal/ingest"
	"github.com/grandparser/backend/internal/models"
	"github.com/grandparser/backend/internal/workflow"
)

// Multipart memory ceiling; bodies beyond it spill to disk.
const maxMultipartMemory = 32 << 20

// upload runs the primary ingestion path through the external extraction
// workflow. A missing webhook URL is a request-time configuration error,
// checked before any side effects.
func (r *Router) upload(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	if !r.webhook.Configured() {
		respondError(w, http.StatusInternalServerError, workflow.ErrNotConfigured.Error())
		return
	}

	up, err := parseUpload(req, true)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.runIngest(w, req, user, *up, r.webhook, "")
}

// uploadTest runs the same pipeline against the test-mode invoker: no
// external workflow, synthetic result, synchronous completion.
func (r *Router) uploadTest(w http.ResponseWriter, req *http.Request) {
	user := r.currentUser(w, req)
	if user == nil {
		return
	}

	up, err := parseUpload(req, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.runIngest(w, req, user, *up, r.testmode,
		"TEST MODE: file uploaded without external processing. Configure EXTRACTION_WEBHOOK_URL for real extraction.")
}

// runIngest executes the pipeline and maps its outcomes onto the wire
// envelope. A processing failure still carries the document id so the
// client can navigate to the failed-document view.
func (r *Router) runIngest(w http.ResponseWriter, req *http.Request, user *models.User, up ingest.Upload, inv workflow.Invoker, notice string) {
	out, err := r.ingest.Ingest(req.Context(), user, up, inv)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Message)
			return
		}
		var perr *ingest.ProcessingError
		if errors.As(err, &perr) {
			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success":     false,
				"error":       perr.Message,
				"document_id": perr.DocumentID,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, ingestFailureMessage(err))
		return
	}

	data := map[string]interface{}{
		"document_id": out.DocumentID,
		"status":      out.Status,
		"result": map[string]interface{}{
			"extracted_json":    out.Result.ExtractedJSON,
			"generated_message": out.Result.GeneratedMessage,
			"raw_text":          out.Result.RawText,
			"confidence":        out.Result.Confidence,
			"warnings":          out.Result.Warnings,
		},
	}
	if out.TemplateID != "" {
		data["template_id"] = out.TemplateID
	}

	resp := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	if notice != "" {
		resp["message"] = notice
	}
	respondJSON(w, http.StatusOK, resp)
}

// ingestFailureMessage maps untyped pipeline errors onto the user-facing
// 500 message, keeping the storage and record steps distinguishable.
func ingestFailureMessage(err error) string {
	if errors.Is(err, ingest.ErrRecordCreate) {
		return "Failed to create document record"
	}
	return "Failed to upload file"
}

// parseUpload pulls the file and template selection out of the multipart
// form. Template fields are only honored on the primary path.
func parseUpload(req *http.Request, withNewTemplate bool) (*ingest.Upload, error) {
	if err := req.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, errors.New("Invalid multipart form")
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, errors.New("File is required")
	}
	defer file.Close()

	// Read one byte past the limit so oversized files are rejected by
	// validation with the specific message, not truncated silently.
	data, err := io.ReadAll(io.LimitReader(file, ingest.MaxFileSize+1))
	if err != nil {
		return nil, errors.New("Failed to read file")
	}

	up := &ingest.Upload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	if id := req.FormValue("template_id"); id != "" {
		up.TemplateID = &id
	} else if withNewTemplate {
		name := req.FormValue("new_template_name")
		description := req.FormValue("new_template_description")
		level := req.FormValue("new_template_level_of_details")
		if name != "" && description != "" && level != "" {
			up.NewTemplate = &workflow.NewTemplate{
				Name:           name,
				Description:    description,
				LevelOfDetails: level,
			}
		}
	}

	return up, nil
}
