// Package render formats tables for terminal output, delimited files, and
// SVG charts. It holds no state: palettes and options are passed in by the
// caller.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CrossTally/crosstally-cli/internal/stats"
	"github.com/CrossTally/crosstally-cli/internal/tabulate"
)

// FormatFloat renders a value with the given number of decimals; a negative
// round uses the shortest exact representation. NaN renders as NA.
func FormatFloat(v float64, round int) string {
	if math.IsNaN(v) {
		return "NA"
	}
	if round < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', round, 64)
}

// Delimited encodes a header and rows as delimited text.
func Delimited(header []string, rows [][]string, delim rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if delim != 0 {
		w.Comma = delim
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := w.Write(r); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown renders a pipe table for terminal output.
func Markdown(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| ")
	b.WriteString(strings.Join(header, " | "))
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, r := range rows {
		b.WriteString("| ")
		b.WriteString(strings.Join(r, " | "))
		b.WriteString(" |\n")
	}
	return b.String()
}

// WideTable stringifies a wide crosstab: the first column carries the row
// categories under the row variable's name.
func WideTable(w tabulate.Wide, round int) (header []string, rows [][]string) {
	header = append([]string{w.RowVar}, w.ColCats...)
	for _, r := range w.Rows {
		row := make([]string, 0, len(r.Values)+1)
		row = append(row, r.RowCat)
		for _, v := range r.Values {
			row = append(row, FormatFloat(v, round))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// LongTable stringifies long-form cells with the variable names as headers.
func LongTable(rowVar, colVar string, long []tabulate.LongRow, round int) (header []string, rows [][]string) {
	header = []string{rowVar, colVar, "Value"}
	for _, lr := range long {
		rows = append(rows, []string{lr.RowCat, lr.ColCat, FormatFloat(lr.Value, round)})
	}
	return header, rows
}

// FreqTable stringifies a frequency table.
func FreqTable(t *tabulate.FreqTable, percent bool, round int) (header []string, rows [][]string) {
	header = append(header, t.GroupVars...)
	header = append(header, "Freq")
	if percent {
		header = append(header, "Perc")
	}
	for _, r := range t.Rows {
		row := append([]string(nil), r.Groups...)
		row = append(row, FormatFloat(r.Count, round))
		if percent {
			row = append(row, FormatFloat(r.Perc, round))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// StatsTable stringifies association records as the flat statistics layout.
func StatsTable(records []stats.Record) (header []string, rows [][]string) {
	header = []string{"Row_Var", "Col_Var", "Size", "Chisq", "DF", "CramersV", "p_value"}
	for _, r := range records {
		rows = append(rows, []string{
			r.RowVar,
			r.ColVar,
			strconv.Itoa(r.Size),
			FormatFloat(r.ChiSq, 3),
			strconv.Itoa(r.DF),
			FormatFloat(r.CramersV, 3),
			FormatFloat(r.PValue, 4),
		})
	}
	return header, rows
}
