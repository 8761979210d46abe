package stats

import (
	"context"
	"math/rand"
	"time"

	"github.com/grandparser/backend/internal/database"
	"github.com/grandparser/backend/internal/models"
)

// Service assembles the aggregate payload from a user's rows. Reads only.
type Service struct {
	db *database.DB
}

func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// ForUser computes the full stats payload for one user.
func (s *Service) ForUser(ctx context.Context, user *models.User) (*Stats, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).
		Preload("Template").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	var results []models.Result
	err = s.db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = results.document_id").
		Where("documents.user_id = ?", user.ID).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(now.UnixNano()))

	completed := make([]models.Document, 0, len(docs))
	for i := range docs {
		if docs[i].Status == models.StatusCompleted {
			completed = append(completed, docs[i])
		}
	}

	start, _ := monthWindow(now)
	nextMonth := start.AddDate(0, 1, 0)
	monthCount := 0
	for i := range docs {
		if !docs[i].CreatedAt.Before(start) && docs[i].CreatedAt.Before(nextMonth) {
			monthCount++
		}
	}

	return &Stats{
		TotalDocuments:      len(docs),
		DocumentsByTemplate: CountByTemplate(docs),
		StatusBreakdown:     BreakdownByStatus(docs),
		AverageConfidence:   AverageConfidence(results),
		RecentUploads:       RecentUploads(docs),
		ProcessingMetrics:   ComputeProcessingMetrics(completed, now, rng),
		CostAnalysis:        ComputeCostAnalysis(len(docs)),
		UsageQuota:          ComputeUsageQuota(monthCount, now),
	}, nil
}
