package stats

import (
	"time"

	"github.com/grandparser/backend/internal/models"
)

// Per-document unit costs for the comparison card, in currency units.
const (
	CostPerDocParser = 0.01
	CostPerDocVision = 0.08
)

// MonthlyQuota is the fixed per-user document quota per calendar month.
const MonthlyQuota = 1000

// TemplateCount is one bucket of the by-template breakdown.
type TemplateCount struct {
	TemplateID   *string `json:"template_id"`
	TemplateName string  `json:"template_name"`
	Count        int     `json:"count"`
}

// StatusCount is one bucket of the status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TrendPoint is one day of the processing-time trend.
type TrendPoint struct {
	Date          string  `json:"date"`
	AvgTime       float64 `json:"avg_time"`
	DocumentCount int     `json:"document_count"`
}

// ProcessingMetrics summarizes per-document processing durations in
// seconds. Durations are measured from created_at to processed_at where
// the latter is recorded; documents without it fall back to a simulated
// 2-15s placeholder value, matching the historical behavior.
type ProcessingMetrics struct {
	AverageProcessingTime *float64     `json:"average_processing_time"`
	FastestProcessingTime *float64     `json:"fastest_processing_time"`
	SlowestProcessingTime *float64     `json:"slowest_processing_time"`
	TotalProcessingTime   float64      `json:"total_processing_time"`
	ProcessingTimeTrend   []TrendPoint `json:"processing_time_trend"`
}

// CostAnalysis compares fixed per-document costs across providers.
type CostAnalysis struct {
	TotalDocumentsProcessed int     `json:"total_documents_processed"`
	EstimatedCostParser     float64 `json:"estimated_cost_grand_parser"`
	EstimatedCostVision     float64 `json:"estimated_cost_chatgpt"`
	TotalSavings            float64 `json:"total_savings"`
	SavingsPercentage       float64 `json:"savings_percentage"`
	CostPerDocumentParser   float64 `json:"cost_per_document_grand_parser"`
	CostPerDocumentVision   float64 `json:"cost_per_document_chatgpt"`
}

// UsageQuota tracks documents against the current calendar month window.
type UsageQuota struct {
	MonthlyQuota                int     `json:"monthly_quota"`
	DocumentsProcessedThisMonth int     `json:"documents_processed_this_month"`
	DocumentsRemaining          int     `json:"documents_remaining"`
	QuotaPercentageUsed         float64 `json:"quota_percentage_used"`
	CurrentPeriodStart          string  `json:"current_period_start"`
	CurrentPeriodEnd            string  `json:"current_period_end"`
	DaysRemaining               int     `json:"days_remaining"`
}

// Stats is the full aggregate payload for one user.
type Stats struct {
	TotalDocuments      int               `json:"total_documents"`
	DocumentsByTemplate []TemplateCount   `json:"documents_by_template"`
	StatusBreakdown     []StatusCount     `json:"status_breakdown"`
	AverageConfidence   *float64          `json:"average_confidence"`
	RecentUploads       []models.Document `json:"recent_uploads"`
	ProcessingMetrics   ProcessingMetrics `json:"processing_metrics"`
	CostAnalysis        CostAnalysis      `json:"cost_analysis"`
	UsageQuota          UsageQuota        `json:"usage_quota"`
}

// monthWindow returns the first and last day of now's calendar month.
func monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}
