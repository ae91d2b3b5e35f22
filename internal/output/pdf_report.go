package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/rendago/fixedincome/internal/domain"
)

const (
	pdfPageWidth    = 210.0
	pdfMarginLeft   = 15.0
	pdfMarginRight  = 15.0
	pdfMarginTop    = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = pdfPageWidth - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders a printable summary report: run assumptions followed
// by one ranked product table per scenario.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string      { return "pdf" }
func (p PDFFormatter) Extension() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.ComparisonReport) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	doc.SetAutoPageBreak(true, pdfMarginBottom)
	doc.AddPage()

	// Title block
	doc.SetFont("Arial", "B", 20)
	doc.SetTextColor(0, 51, 102)
	doc.CellFormat(pdfContentWidth, 12, "Fixed-Income Scenario Comparison", "", 1, "C", false, 0, "")

	doc.SetFont("Arial", "", 11)
	doc.SetTextColor(80, 80, 80)
	doc.CellFormat(pdfContentWidth, 8,
		fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2 January 2006 15:04")),
		"", 1, "C", false, 0, "")
	doc.CellFormat(pdfContentWidth, 8,
		fmt.Sprintf("Initial capital: %s  |  Granularity: %s  |  Tax policy: %s",
			FormatCurrency(report.InitialCapital), report.Granularity, report.TaxPolicy),
		"", 1, "C", false, 0, "")
	doc.Ln(6)

	for _, sc := range report.Scenarios {
		p.addScenarioTable(doc, sc)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p PDFFormatter) addScenarioTable(doc *fpdf.Fpdf, sc domain.ScenarioSummary) {
	doc.SetFont("Arial", "B", 13)
	doc.SetTextColor(0, 51, 102)
	doc.CellFormat(pdfContentWidth, 9, sc.Scenario, "", 1, "L", false, 0, "")

	if sc.Description != "" {
		doc.SetFont("Arial", "I", 10)
		doc.SetTextColor(100, 100, 100)
		doc.CellFormat(pdfContentWidth, 6, sc.Description, "", 1, "L", false, 0, "")
	}

	colWidths := []float64{10, 70, 34, 32, 34}
	headers := []string{"#", "Product", "Final Gross", "Tax", "Final Net"}

	doc.SetFont("Arial", "B", 10)
	doc.SetTextColor(255, 255, 255)
	doc.SetFillColor(0, 51, 102)
	for i, h := range headers {
		doc.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 10)
	doc.SetTextColor(50, 50, 50)
	for i, res := range sc.Results {
		fill := i%2 == 1
		doc.SetFillColor(245, 247, 250)
		doc.CellFormat(colWidths[0], 7, fmt.Sprintf("%d", i+1), "1", 0, "C", fill, 0, "")
		doc.CellFormat(colWidths[1], 7, res.Product, "1", 0, "L", fill, 0, "")
		doc.CellFormat(colWidths[2], 7, FormatCurrency(res.FinalGross), "1", 0, "R", fill, 0, "")
		doc.CellFormat(colWidths[3], 7, FormatCurrency(res.FinalTax), "1", 0, "R", fill, 0, "")
		doc.CellFormat(colWidths[4], 7, FormatCurrency(res.FinalNet), "1", 0, "R", fill, 0, "")
		doc.Ln(-1)
	}
	doc.Ln(6)
}
