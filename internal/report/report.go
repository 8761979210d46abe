package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/grandparser/backend/internal/models"
	"github.com/grandparser/backend/internal/stats"
)

// Generate renders a user's stats payload as a one-page PDF summary with
// a QR code linking back to the dashboard.
func Generate(user *models.User, s *stats.Stats, dashboardURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "Document Analytics Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Account: %s", user.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 UTC")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Overview")
	row(pdf, "Total documents", fmt.Sprintf("%d", s.TotalDocuments))
	if s.AverageConfidence != nil {
		row(pdf, "Average confidence", fmt.Sprintf("%.2f", *s.AverageConfidence))
	} else {
		row(pdf, "Average confidence", "n/a")
	}
	for _, sc := range s.StatusBreakdown {
		row(pdf, fmt.Sprintf("Documents %s", sc.Status), fmt.Sprintf("%d", sc.Count))
	}
	pdf.Ln(4)

	section(pdf, "Documents by Template")
	for _, tc := range s.DocumentsByTemplate {
		row(pdf, tc.TemplateName, fmt.Sprintf("%d", tc.Count))
	}
	if len(s.DocumentsByTemplate) == 0 {
		row(pdf, "No documents yet", "-")
	}
	pdf.Ln(4)

	section(pdf, "Processing")
	if s.ProcessingMetrics.AverageProcessingTime != nil {
		row(pdf, "Average processing time", fmt.Sprintf("%.1f s", *s.ProcessingMetrics.AverageProcessingTime))
		row(pdf, "Fastest", fmt.Sprintf("%.1f s", *s.ProcessingMetrics.FastestProcessingTime))
		row(pdf, "Slowest", fmt.Sprintf("%.1f s", *s.ProcessingMetrics.SlowestProcessingTime))
	} else {
		row(pdf, "Average processing time", "n/a")
	}
	pdf.Ln(4)

	section(pdf, "Cost Comparison")
	row(pdf, "Cost with Grand Parser", fmt.Sprintf("$%.2f", s.CostAnalysis.EstimatedCostParser))
	row(pdf, "Cost with vision model", fmt.Sprintf("$%.2f", s.CostAnalysis.EstimatedCostVision))
	row(pdf, "Savings", fmt.Sprintf("$%.2f (%.0f%%)", s.CostAnalysis.TotalSavings, s.CostAnalysis.SavingsPercentage))
	pdf.Ln(4)

	section(pdf, "Monthly Quota")
	row(pdf, "Used this month", fmt.Sprintf("%d / %d (%.1f%%)",
		s.UsageQuota.DocumentsProcessedThisMonth, s.UsageQuota.MonthlyQuota, s.UsageQuota.QuotaPercentageUsed))
	row(pdf, "Days remaining in period", fmt.Sprintf("%d", s.UsageQuota.DaysRemaining))

	// Dashboard QR in the bottom-right corner
	if dashboardURL != "" {
		qrPng, err := qrcode.Encode(dashboardURL, qrcode.Low, 256)
		if err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
			_ = pdf.RegisterImageOptionsReader("dashboard_qr", opts, bytes.NewReader(qrPng))
			pdf.ImageOptions("dashboard_qr", 165, 250, 30, 30, false, opts, 0, "")
			pdf.SetXY(160, 281)
			pdf.SetFont("Arial", "", 7)
			pdf.CellFormat(40, 4, "Open dashboard", "", 0, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(90, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
