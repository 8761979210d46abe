package workflow

import (
	"context"
	"errors"

	"gorm.io/datatypes"
)

// ErrNotConfigured is returned when no extraction webhook URL is set.
// Uploads fail with a configuration error at request time, not at startup.
var ErrNotConfigured = errors.New("extraction webhook URL not configured")

// NewTemplate describes a template created on the fly during upload.
type NewTemplate struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	LevelOfDetails string `json:"level_of_details"`
}

// Payload is the request sent to the extraction workflow.
type Payload struct {
	DocumentID  string       `json:"document_id"`
	FilePath    string       `json:"file_path"`
	Filename    string       `json:"filename"`
	TemplateID  string       `json:"template_id,omitempty"`
	NewTemplate *NewTemplate `json:"new_template,omitempty"`
}

// Outcome is the workflow's verdict on a document. Mock outcomes come from
// the test-mode invoker and must be persisted by the caller; real outcomes
// are persisted by the workflow itself.
type Outcome struct {
	Success          bool           `json:"success"`
	Error            string         `json:"error,omitempty"`
	ExtractedJSON    datatypes.JSON `json:"extracted_json,omitempty"`
	GeneratedMessage string         `json:"generated_message,omitempty"`
	RawText          string         `json:"raw_text,omitempty"`
	Confidence       *float64       `json:"confidence,omitempty"`
	Warnings         datatypes.JSON `json:"warnings,omitempty"`
	TemplateID       string         `json:"template_id,omitempty"`
	Mock             bool           `json:"-"`
}

// Invoker is the capability boundary to the external extraction workflow.
// The workflow is an untrusted collaborator: implementations bound the call
// with a timeout and report failure through the Outcome, transport errors
// through the error.
type Invoker interface {
	Invoke(ctx context.Context, payload Payload) (*Outcome, error)
}
