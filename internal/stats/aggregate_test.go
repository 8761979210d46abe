package stats

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/grandparser/backend/internal/models"
)

func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestRecentUploads(t *testing.T) {
	empty := RecentUploads(nil)
	if empty == nil {
		t.Fatal("no documents returned a nil slice")
	}
	b, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[]" {
		t.Errorf("no documents marshals as %s, want []", b)
	}

	docs := make([]models.Document, 12)
	for i := range docs {
		docs[i].Filename = string(rune('a' + i))
	}
	recent := RecentUploads(docs)
	if len(recent) != 10 {
		t.Fatalf("got %d recent uploads, want 10", len(recent))
	}
	if recent[0].Filename != "a" || recent[9].Filename != "j" {
		t.Error("recent uploads not the first ten in order")
	}
}

func TestCountByTemplate(t *testing.T) {
	t1 := "tpl-1"
	docs := []models.Document{
		{TemplateID: &t1, Template: &models.Template{Name: "Invoices"}},
		{TemplateID: &t1, Template: &models.Template{Name: "Invoices"}},
		{TemplateID: nil},
		{TemplateID: nil},
		{TemplateID: nil},
	}

	counts := CountByTemplate(docs)
	if len(counts) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(counts))
	}
	if counts[0].TemplateName != "Invoices" || counts[0].Count != 2 {
		t.Errorf("template bucket wrong: %+v", counts[0])
	}
	if counts[1].TemplateName != "No Template" || counts[1].Count != 3 || counts[1].TemplateID != nil {
		t.Errorf("null bucket wrong: %+v", counts[1])
	}
}

func TestBreakdownByStatus(t *testing.T) {
	docs := []models.Document{
		{Status: models.StatusCompleted},
		{Status: models.StatusCompleted},
		{Status: models.StatusFailed},
		{Status: models.StatusProcessing},
	}

	breakdown := BreakdownByStatus(docs)
	got := map[string]int{}
	for _, b := range breakdown {
		got[b.Status] = b.Count
	}
	if got["completed"] != 2 || got["failed"] != 1 || got["processing"] != 1 {
		t.Errorf("breakdown wrong: %v", got)
	}
}

func TestAverageConfidence(t *testing.T) {
	if avg := AverageConfidence(nil); avg != nil {
		t.Errorf("expected nil for no results, got %v", *avg)
	}

	noConfidence := []models.Result{{Confidence: nil}, {Confidence: nil}}
	if avg := AverageConfidence(noConfidence); avg != nil {
		t.Errorf("expected nil when all confidences are null, got %v", *avg)
	}

	results := []models.Result{
		{Confidence: floatPtr(0.8)},
		{Confidence: nil},
		{Confidence: floatPtr(0.6)},
	}
	avg := AverageConfidence(results)
	if avg == nil {
		t.Fatal("expected average, got nil")
	}
	if math.Abs(*avg-0.7) > 1e-9 {
		t.Errorf("average = %f, want 0.7", *avg)
	}
}

func TestComputeProcessingMetricsRealDurations(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	completed := []models.Document{
		{CreatedAt: now.Add(-time.Hour), ProcessedAt: timePtr(now.Add(-time.Hour + 4*time.Second))},
		{CreatedAt: now.Add(-2 * time.Hour), ProcessedAt: timePtr(now.Add(-2*time.Hour + 10*time.Second))},
	}

	m := ComputeProcessingMetrics(completed, now, rng)
	if m.AverageProcessingTime == nil {
		t.Fatal("expected metrics for completed documents")
	}
	if *m.AverageProcessingTime != 7 {
		t.Errorf("average = %f, want 7", *m.AverageProcessingTime)
	}
	if *m.FastestProcessingTime != 4 || *m.SlowestProcessingTime != 10 {
		t.Errorf("fastest/slowest = %f/%f, want 4/10",
			*m.FastestProcessingTime, *m.SlowestProcessingTime)
	}
	if m.TotalProcessingTime != 14 {
		t.Errorf("total = %f, want 14", m.TotalProcessingTime)
	}
}

func TestComputeProcessingMetricsFallback(t *testing.T) {
	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(42))

	// No processed_at; durations come from the simulated 2-15s range.
	completed := []models.Document{{CreatedAt: now}, {CreatedAt: now}}
	m := ComputeProcessingMetrics(completed, now, rng)

	if m.AverageProcessingTime == nil {
		t.Fatal("expected simulated metrics")
	}
	if *m.FastestProcessingTime < 2 || *m.SlowestProcessingTime > 15 {
		t.Errorf("simulated durations out of range: %f..%f",
			*m.FastestProcessingTime, *m.SlowestProcessingTime)
	}
}

func TestComputeProcessingMetricsEmpty(t *testing.T) {
	m := ComputeProcessingMetrics(nil, time.Now(), rand.New(rand.NewSource(0)))
	if m.AverageProcessingTime != nil || m.FastestProcessingTime != nil || m.SlowestProcessingTime != nil {
		t.Error("expected nil metrics with no completed documents")
	}
	if m.TotalProcessingTime != 0 {
		t.Errorf("total = %f, want 0", m.TotalProcessingTime)
	}
	if len(m.ProcessingTimeTrend) != 7 {
		t.Errorf("trend should still cover 7 days, got %d", len(m.ProcessingTimeTrend))
	}
}

func TestTrendWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(7))

	completed := []models.Document{
		{CreatedAt: now.Add(-2 * time.Hour), ProcessedAt: timePtr(now.Add(-2*time.Hour + 5*time.Second))},      // today
		{CreatedAt: now.AddDate(0, 0, -3), ProcessedAt: timePtr(now.AddDate(0, 0, -3).Add(5 * time.Second))},   // 3 days ago
		{CreatedAt: now.AddDate(0, 0, -10), ProcessedAt: timePtr(now.AddDate(0, 0, -10).Add(5 * time.Second))}, // outside window
	}

	m := ComputeProcessingMetrics(completed, now, rng)
	trend := m.ProcessingTimeTrend

	if len(trend) != 7 {
		t.Fatalf("expected 7 trend points, got %d", len(trend))
	}
	if trend[0].Date != "2025-06-09" || trend[6].Date != "2025-06-15" {
		t.Errorf("window bounds wrong: %s .. %s", trend[0].Date, trend[6].Date)
	}
	if trend[6].DocumentCount != 1 {
		t.Errorf("today's count = %d, want 1", trend[6].DocumentCount)
	}
	if trend[3].DocumentCount != 1 {
		t.Errorf("day -3 count = %d, want 1", trend[3].DocumentCount)
	}
	total := 0
	for _, p := range trend {
		total += p.DocumentCount
	}
	if total != 2 {
		t.Errorf("documents inside window = %d, want 2", total)
	}
}

func TestComputeCostAnalysis(t *testing.T) {
	empty := ComputeCostAnalysis(0)
	if empty.SavingsPercentage != 0 {
		t.Errorf("savings percentage with no documents = %f, want 0", empty.SavingsPercentage)
	}

	c := ComputeCostAnalysis(100)
	if c.EstimatedCostParser != 1.0 || c.EstimatedCostVision != 8.0 {
		t.Errorf("costs = %f/%f, want 1.00/8.00", c.EstimatedCostParser, c.EstimatedCostVision)
	}
	if math.Abs(c.TotalSavings-7.0) > 1e-9 {
		t.Errorf("savings = %f, want 7.00", c.TotalSavings)
	}
	if math.Abs(c.SavingsPercentage-87.5) > 1e-9 {
		t.Errorf("savings percentage = %f, want 87.5", c.SavingsPercentage)
	}
}

func TestComputeUsageQuota(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	q := ComputeUsageQuota(250, now)
	if q.MonthlyQuota != 1000 {
		t.Errorf("quota = %d, want 1000", q.MonthlyQuota)
	}
	if q.DocumentsRemaining != 750 {
		t.Errorf("remaining = %d, want 750", q.DocumentsRemaining)
	}
	if math.Abs(q.QuotaPercentageUsed-25.0) > 1e-9 {
		t.Errorf("percentage = %f, want 25", q.QuotaPercentageUsed)
	}
	if q.DaysRemaining != 20 {
		t.Errorf("days remaining = %d, want 20", q.DaysRemaining)
	}

	over := ComputeUsageQuota(1200, now)
	if over.DocumentsRemaining != 0 {
		t.Errorf("remaining should clamp at 0, got %d", over.DocumentsRemaining)
	}
}
