package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grandparser/backend/internal/database"
	"github.com/grandparser/backend/internal/logger"
	"github.com/grandparser/backend/internal/models"
	"github.com/grandparser/backend/internal/storage"
	"github.com/grandparser/backend/internal/workflow"
)

// Pipeline failures before a Document row exists, distinguished so the
// handler can report which step broke.
var (
	ErrObjectStore  = errors.New("failed to upload file")
	ErrRecordCreate = errors.New("failed to create document record")
)

// Upload is one inbound file with its template selection.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
	TemplateID  *string
	NewTemplate *workflow.NewTemplate
}

// Outcome is what the pipeline reports back to the client. DocumentID is
// set whenever the Document row was created, even on failure, so the
// client can still route to the failed-document view.
type Outcome struct {
	DocumentID string
	Status     string
	Result     *workflow.Outcome
	TemplateID string
}

// ProcessingError is a workflow failure after the Document row exists.
type ProcessingError struct {
	DocumentID string
	Message    string
}

func (e *ProcessingError) Error() string {
	return e.Message
}

// Service runs the upload pipeline: validate, store, record, dispatch.
type Service struct {
	db    *database.DB
	store storage.Storage
	log   zerolog.Logger
}

func NewService(db *database.DB, store storage.Storage) *Service {
	return &Service{
		db:    db,
		store: store,
		log:   logger.For("ingest"),
	}
}

// Ingest runs the full pipeline for one upload using the given workflow
// invoker. Failures before the Document row exists leave no trace: a
// stored object whose row insert fails is deleted again. Failures after
// the row exists mark it failed and keep both the row and the object.
func (s *Service) Ingest(ctx context.Context, user *models.User, up Upload, inv workflow.Invoker) (*Outcome, error) {
	if verr := ValidateUpload(up); verr != nil {
		return nil, verr
	}

	key := objectKey(user.ID, up.Filename)
	if err := s.store.Upload(ctx, key, bytes.NewReader(up.Data), up.ContentType); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("object upload failed")
		return nil, fmt.Errorf("%w: %v", ErrObjectStore, err)
	}

	doc := models.Document{
		UserID:     user.ID,
		Filename:   up.Filename,
		FilePath:   key,
		UploadDate: time.Now().UTC(),
		TemplateID: up.TemplateID,
		Status:     models.StatusProcessing,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		// Compensate: the object must not outlive a missing row.
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Error().Err(derr).Str("key", key).Msg("orphan cleanup failed")
		}
		s.log.Error().Err(err).Msg("document record creation failed")
		return nil, fmt.Errorf("%w: %v", ErrRecordCreate, err)
	}

	payload := workflow.Payload{
		DocumentID: doc.ID,
		FilePath:   key,
		Filename:   up.Filename,
	}
	if up.TemplateID != nil {
		payload.TemplateID = *up.TemplateID
	} else if up.NewTemplate != nil {
		payload.NewTemplate = up.NewTemplate
	}

	out, err := inv.Invoke(ctx, payload)
	if err != nil {
		s.markFailed(ctx, doc.ID)
		s.log.Error().Err(err).Str("document_id", doc.ID).Msg("workflow invocation failed")
		return nil, &ProcessingError{DocumentID: doc.ID, Message: "Failed to process document"}
	}
	if !out.Success {
		s.markFailed(ctx, doc.ID)
		msg := out.Error
		if msg == "" {
			msg = "Processing failed"
		}
		return nil, &ProcessingError{DocumentID: doc.ID, Message: msg}
	}

	if out.Mock {
		// No external workflow behind this outcome; persist the
		// synthetic result ourselves and complete the document.
		if err := s.persistResult(ctx, doc.ID, out); err != nil {
			s.log.Error().Err(err).Str("document_id", doc.ID).Msg("mock result creation failed")
		}
	}
	s.markCompleted(ctx, doc.ID)

	templateID := out.TemplateID
	if templateID == "" && up.TemplateID != nil {
		templateID = *up.TemplateID
	}

	return &Outcome{
		DocumentID: doc.ID,
		Status:     models.StatusCompleted,
		Result:     out,
		TemplateID: templateID,
	}, nil
}

func (s *Service) persistResult(ctx context.Context, documentID string, out *workflow.Outcome) error {
	result := models.Result{
		DocumentID:       documentID,
		ExtractedJSON:    out.ExtractedJSON,
		GeneratedMessage: &out.GeneratedMessage,
		RawText:          &out.RawText,
		Confidence:       out.Confidence,
		Warnings:         out.Warnings,
	}
	return s.db.WithContext(ctx).Create(&result).Error
}

func (s *Service) markFailed(ctx context.Context, documentID string) {
	s.transition(ctx, documentID, models.StatusFailed)
}

func (s *Service) markCompleted(ctx context.Context, documentID string) {
	s.transition(ctx, documentID, models.StatusCompleted)
}

// transition moves a processing document into a terminal state and stamps
// processed_at so stats can compute real durations. Terminal rows are left
// untouched.
func (s *Service) transition(ctx context.Context, documentID, status string) {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND status = ?", documentID, models.StatusProcessing).
		Updates(map[string]interface{}{"status": status, "processed_at": now}).Error
	if err != nil {
		s.log.Error().Err(err).Str("document_id", documentID).Str("status", status).Msg("status update failed")
	}
}

// objectKey builds a per-user, collision-resistant storage path:
// <user>/<millis>-<random>.<ext>.
func objectKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s/%d-%s%s", userID, time.Now().UnixMilli(), suffix, ext)
}
