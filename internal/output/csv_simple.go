package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rendago/fixedincome/internal/domain"
)

// CSVSummarizer implements the summary CSV output: one row per
// (scenario, product) pair, preserving each scenario's ranking order.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ComparisonReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Rank", "Product", "FinalGross", "FinalTax", "FinalNet"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		for i, res := range sc.Results {
			row := []string{
				sc.Scenario,
				strconv.Itoa(i + 1),
				res.Product,
				res.FinalGross.StringFixed(2),
				res.FinalTax.StringFixed(2),
				res.FinalNet.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
