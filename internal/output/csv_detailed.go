package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rendago/fixedincome/internal/domain"
)

// CSVDetailedExporter writes the full per-period timelines: one row per
// (scenario, product, period).
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *domain.ComparisonReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Product", "Period", "Rate", "GrossBalance", "CustodyFee", "BalanceAfterFee"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		for _, res := range sc.Results {
			for _, rec := range res.Timeline {
				row := []string{
					sc.Scenario,
					res.Product,
					strconv.Itoa(rec.Period),
					rec.Rate.String(),
					rec.GrossBalance.StringFixed(6),
					rec.CustodyFee.StringFixed(6),
					rec.BalanceAfterFee.StringFixed(6),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
