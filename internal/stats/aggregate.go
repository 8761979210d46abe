package stats

import (
	"math"
	"math/rand"
	"time"

	"github.com/grandparser/backend/internal/models"
)

// CountByTemplate groups documents by template id. Documents without a
// template land in a single "No Template" bucket.
func CountByTemplate(docs []models.Document) []TemplateCount {
	out := []TemplateCount{}
	index := map[string]int{}

	for i := range docs {
		doc := &docs[i]
		key := ""
		name := "No Template"
		if doc.TemplateID != nil {
			key = *doc.TemplateID
			if doc.Template != nil {
				name = doc.Template.Name
			}
		}
		if pos, ok := index[key]; ok {
			out[pos].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, TemplateCount{
			TemplateID:   doc.TemplateID,
			TemplateName: name,
			Count:        1,
		})
	}
	return out
}

// RecentUploads returns at most the ten newest documents. The input is
// already sorted newest first; the result is never nil so an empty history
// serializes as an empty array.
func RecentUploads(docs []models.Document) []models.Document {
	if len(docs) > 10 {
		docs = docs[:10]
	}
	out := make([]models.Document, len(docs))
	copy(out, docs)
	return out
}

// BreakdownByStatus groups documents by lifecycle status.
func BreakdownByStatus(docs []models.Document) []StatusCount {
	out := []StatusCount{}
	index := map[string]int{}

	for i := range docs {
		status := docs[i].Status
		if pos, ok := index[status]; ok {
			out[pos].Count++
			continue
		}
		index[status] = len(out)
		out = append(out, StatusCount{Status: status, Count: 1})
	}
	return out
}

// AverageConfidence computes the mean over non-null confidences, nil when
// there are none.
func AverageConfidence(results []models.Result) *float64 {
	sum := 0.0
	n := 0
	for i := range results {
		if results[i].Confidence != nil {
			sum += *results[i].Confidence
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// processingDuration returns the per-document processing duration in
// seconds. Documents processed before processed_at existed fall back to a
// simulated 2-15s value; real timestamps win when present.
func processingDuration(doc *models.Document, rng *rand.Rand) float64 {
	if doc.ProcessedAt != nil {
		if d := doc.ProcessedAt.Sub(doc.CreatedAt).Seconds(); d > 0 {
			return d
		}
	}
	return 2 + rng.Float64()*13
}

// ComputeProcessingMetrics summarizes durations over completed documents
// and builds the 7-day trend ending today.
func ComputeProcessingMetrics(completed []models.Document, now time.Time, rng *rand.Rand) ProcessingMetrics {
	durations := make([]float64, len(completed))
	total := 0.0
	for i := range completed {
		durations[i] = processingDuration(&completed[i], rng)
		total += durations[i]
	}

	m := ProcessingMetrics{TotalProcessingTime: total}
	if len(durations) > 0 {
		avg := total / float64(len(durations))
		fastest := durations[0]
		slowest := durations[0]
		for _, d := range durations[1:] {
			fastest = math.Min(fastest, d)
			slowest = math.Max(slowest, d)
		}
		m.AverageProcessingTime = &avg
		m.FastestProcessingTime = &fastest
		m.SlowestProcessingTime = &slowest
	}

	m.ProcessingTimeTrend = trend(completed, durations, now)
	return m
}

// trend buckets completed documents into the last 7 calendar days,
// inclusive, ending today.
func trend(completed []models.Document, durations []float64, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")

		count := 0
		sum := 0.0
		for j := range completed {
			if completed[j].CreatedAt.Format("2006-01-02") == date {
				count++
				sum += durations[j]
			}
		}

		point := TrendPoint{Date: date, DocumentCount: count}
		if count > 0 {
			point.AvgTime = sum / float64(count)
		}
		points = append(points, point)
	}
	return points
}

// ComputeCostAnalysis multiplies the fixed per-document unit costs by the
// total document count.
func ComputeCostAnalysis(totalDocs int) CostAnalysis {
	parser := float64(totalDocs) * CostPerDocParser
	vision := float64(totalDocs) * CostPerDocVision
	savings := vision - parser

	pct := 0.0
	if vision > 0 {
		pct = savings / vision * 100
	}

	return CostAnalysis{
		TotalDocumentsProcessed: totalDocs,
		EstimatedCostParser:     parser,
		EstimatedCostVision:     vision,
		TotalSavings:            savings,
		SavingsPercentage:       pct,
		CostPerDocumentParser:   CostPerDocParser,
		CostPerDocumentVision:   CostPerDocVision,
	}
}

// ComputeUsageQuota counts documents created in the current calendar month
// against the fixed monthly quota.
func ComputeUsageQuota(monthCount int, now time.Time) UsageQuota {
	start, end := monthWindow(now)

	remaining := MonthlyQuota - monthCount
	if remaining < 0 {
		remaining = 0
	}
	daysRemaining := int(math.Ceil(end.Sub(now).Hours() / 24))
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	return UsageQuota{
		MonthlyQuota:                MonthlyQuota,
		DocumentsProcessedThisMonth: monthCount,
		DocumentsRemaining:          remaining,
		QuotaPercentageUsed:         float64(monthCount) / float64(MonthlyQuota) * 100,
		CurrentPeriodStart:          start.Format(time.RFC3339),
		CurrentPeriodEnd:            end.Format(time.RFC3339),
		DaysRemaining:               daysRemaining,
	}
}
