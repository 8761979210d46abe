package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/grandparser/backend/internal/database"
	"github.com/grandparser/backend/internal/logger"
	"github.com/grandparser/backend/internal/models"
)

// Resolver maps external identity subjects to local User rows,
// auto-provisioning on first sight.
type Resolver struct {
	db       *database.DB
	provider Provider
	log      zerolog.Logger
}

func NewResolver(db *database.DB, provider Provider) *Resolver {
	return &Resolver{
		db:       db,
		provider: provider,
		log:      logger.For("identity"),
	}
}

// Resolve returns the User row for a subject, creating it if absent.
// Concurrent first requests may race on the insert; the unique constraint
// on subject_id adjudicates, and the loser re-fetches instead of failing.
// Returns nil (never an error to the caller's flow) when the provider
// lookup or the insert fails for any other reason; the condition is logged.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) *models.User {
	if subjectID == "" {
		return nil
	}

	var user models.User
	err := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&user).Error
	if err == nil {
		return &user
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Error().Err(err).Str("subject", subjectID).Msg("user lookup failed")
		return nil
	}

	subject, err := r.provider.Lookup(ctx, subjectID)
	if err != nil {
		r.log.Error().Err(err).Str("subject", subjectID).Msg("identity provider lookup failed")
		return nil
	}

	user = models.User{
		SubjectID: subjectID,
		Email:     subject.Email,
	}
	err = r.db.WithContext(ctx).Create(&user).Error
	if err == nil {
		r.log.Info().Str("subject", subjectID).Str("user_id", user.ID).Msg("provisioned new user")
		return &user
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the provisioning race; the row exists now.
		var existing models.User
		if ferr := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&existing).Error; ferr == nil {
			return &existing
		}
		r.log.Error().Str("subject", subjectID).Msg("duplicate insert but re-fetch failed")
		return nil
	}

	r.log.Error().Err(err).Str("subject", subjectID).Msg("user insert failed")
	return nil
}
