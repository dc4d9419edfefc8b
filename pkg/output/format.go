// Package output provides utilities for formatting and displaying valuation results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/npv-calc/internal/registry"
	"github.com/iwvelando/npv-calc/internal/valuation"
	"github.com/iwvelando/npv-calc/pkg/finance"
	"github.com/iwvelando/npv-calc/pkg/format"
	"github.com/iwvelando/npv-calc/pkg/mathutil"
)

// Verdict labels a result by the NPV decision rule.
func Verdict(npv float64) string {
	switch {
	case mathutil.IsPositive(npv):
		return "accept"
	case mathutil.IsNegative(npv):
		return "reject"
	case mathutil.IsZero(npv):
		return "break-even"
	}
	return "undefined"
}

// ProjectsTable writes the current registry contents as a human-readable table.
func ProjectsTable(w io.Writer, projects []registry.Project) {
	fmt.Fprintf(w, "--- Current projects ---\n")
	if len(projects) == 0 {
		fmt.Fprintf(w, "(none)\n")
		return
	}

	names := make([]string, len(projects))
	for i, project := range projects {
		names[i] = project.Name
	}
	width := nameWidth(names)
	fmt.Fprintf(w, "%-*s | Cash flows\n", width, "Project")
	fmt.Fprintf(w, "%s | __________\n", strings.Repeat("_", width))
	for _, project := range projects {
		fmt.Fprintf(w, "%-*s | %s\n", width, project.Name, finance.FormatCashFlows(project.CashFlows))
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, rate float64, results []valuation.Result) {
	fmt.Fprintf(w, "--- NPV results at %.2f%% ---\n", mathutil.FractionToPercent(rate))

	names := make([]string, len(results))
	for i, result := range results {
		names[i] = result.Name
	}
	width := nameWidth(names)
	fmt.Fprintf(w, "%-*s | NPV            | Verdict\n", width, "Project")
	fmt.Fprintf(w, "%s | ______________ | _______\n", strings.Repeat("_", width))
	for _, result := range results {
		fmt.Fprintf(w, "%-*s | %14s | %s\n", width, result.Name, format.Currency(result.NPV), Verdict(result.NPV))
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, rate float64, results []valuation.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"project", "discount rate (%)", "npv"}); err != nil {
		return err
	}
	ratePercent := format.Plain(mathutil.FractionToPercent(rate))
	for _, result := range results {
		if err := writer.Write([]string{result.Name, ratePercent, format.Plain(result.NPV)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering of results.
func CsvString(rate float64, results []valuation.Result) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, rate, results); err != nil {
		return ""
	}
	return buf.String()
}

// nameWidth returns the width of the project column.
func nameWidth(names []string) int {
	width := len("Project")
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	return width
}
