package output

import (
	"bytes"
	"fmt"

	"github.com/rendago/fixedincome/internal/domain"
)

// ConsoleFormatter renders ranked per-scenario tables for terminal output.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.ComparisonReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FIXED-INCOME SCENARIO COMPARISON")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Initial capital: %s | Granularity: %s | Tax policy: %s\n",
		FormatCurrency(report.InitialCapital), report.Granularity, report.TaxPolicy)

	for _, sc := range report.Scenarios {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "=== %s ===\n", sc.Scenario)
		if sc.Description != "" {
			fmt.Fprintln(&buf, sc.Description)
		}
		fmt.Fprintf(&buf, "%-4s %-20s %16s %14s %16s\n", "#", "Product", "Final Gross", "Tax", "Final Net")
		for i, res := range sc.Results {
			fmt.Fprintf(&buf, "%-4d %-20s %16s %14s %16s\n",
				i+1,
				res.Product,
				FormatCurrency(res.FinalGross),
				FormatCurrency(res.FinalTax),
				FormatCurrency(res.FinalNet),
			)
		}
	}
	return buf.Bytes(), nil
}
