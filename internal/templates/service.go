package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/grandparser/backend/internal/database"
	"github.com/grandparser/backend/internal/models"
)

// ErrNotFound covers both a missing template and one the caller may not
// see. Private templates owned by others are indistinguishable from
// nonexistent ones.
var ErrNotFound = errors.New("template not found")

// CreateRequest carries the fields for a user-defined template.
type CreateRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"required,max=500"`
	LevelOfDetails string `json:"level_of_details" validate:"required,max=100"`
}

// Service is the registry of extraction templates.
type Service struct {
	db       *database.DB
	validate *validator.Validate
}

func NewService(db *database.DB) *Service {
	return &Service{
		db:       db,
		validate: validator.New(),
	}
}

// ListVisible returns the union of public templates and the user's own,
// public first, newest first within each group. A single filtered query
// keeps the result free of duplicates.
func (s *Service) ListVisible(ctx context.Context, user *models.User) ([]models.Template, error) {
	// Non-nil so an empty registry serializes as an empty array.
	out := []models.Template{}
	err := s.db.WithContext(ctx).
		Where("is_public = ? OR created_by = ?", true, user.ID).
		Order("is_public DESC, created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one template, with visibility folded into the lookup so
// "not found" and "not permitted" share a code path.
func (s *Service) Get(ctx context.Context, id string, user *models.User) (*models.Template, error) {
	var tpl models.Template
	err := s.db.WithContext(ctx).
		Where("id = ? AND (is_public = ? OR created_by = ?)", id, true, user.ID).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// ValidationError rejects a malformed create request. The message is
// user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Create inserts a private template owned by the user.
func (s *Service) Create(ctx context.Context, user *models.User, req CreateRequest) (*models.Template, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: firstValidationMessage(err)}
	}

	tpl := models.Template{
		Name:           req.Name,
		Description:    &req.Description,
		LevelOfDetails: &req.LevelOfDetails,
		CreatedBy:      &user.ID,
		IsPublic:       false,
	}
	if err := s.db.WithContext(ctx).Create(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func firstValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fieldLabel(fe.Field()))
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", fieldLabel(fe.Field()), fe.Param())
		}
		return fmt.Sprintf("%s is invalid", fieldLabel(fe.Field()))
	}
	return err.Error()
}

func fieldLabel(field string) string {
	switch field {
	case "Name":
		return "Template name"
	case "Description":
		return "Description"
	case "LevelOfDetails":
		return "Level of details"
	}
	return field
}
