package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/grandparser/backend/internal/database"
	"github.com/grandparser/backend/internal/models"
	"github.com/grandparser/backend/internal/storage"
)

// ErrNotFound covers both a missing document and one owned by another
// user, so listings leak no existence information.
var ErrNotFound = errors.New("document not found")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized pagination window.
type Page struct {
	Number int
	Limit  int
}

// NormalizePage clamps raw page/limit values to the allowed window.
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: page, Limit: limit}
}

// Service is the read side over documents, results and their templates.
type Service struct {
	db    *database.DB
	store storage.Storage
}

func NewService(db *database.DB, store storage.Storage) *Service {
	return &Service{db: db, store: store}
}

// List returns one page of the user's documents, newest first, with the
// total count independent of the window.
func (s *Service) List(ctx context.Context, user *models.User, page Page) ([]models.Document, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Document{}).Where("user_id = ?", user.ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Non-nil so a page past the end serializes as an empty array.
	docs := []models.Document{}
	err := s.db.WithContext(ctx).
		Preload("Template").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset((page.Number - 1) * page.Limit).
		Limit(page.Limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Get fetches one document with template and result joined. Ownership is
// part of the lookup itself.
func (s *Service) Get(ctx context.Context, id string, user *models.User) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Preload("Template").
		Preload("Result").
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// File holds the raw document bytes and download metadata.
type File struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

// GetFile streams the stored object after the ownership check.
func (s *Service) GetFile(ctx context.Context, id string, user *models.User) (*File, error) {
	doc, err := s.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}

	body, err := s.store.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return &File{
		Body:        body,
		ContentType: ContentTypeFor(doc.Filename),
		Filename:    doc.Filename,
	}, nil
}

// ContentTypeFor derives the download content type from the filename
// extension, falling back to octet-stream.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	}
	return "application/octet-stream"
}
