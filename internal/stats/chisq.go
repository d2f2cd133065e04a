// Package stats computes association statistics for weighted contingency
// tables: Pearson's chi-square, degrees of freedom, Cramer's V, and the
// chi-square p-value.
//
// Caveat for callers: the chi-square test and its p-value are unreliable for
// very large (n > 500) or very small (n < 5) samples; prefer Cramer's V (or
// Fisher's exact test) in those regimes. This is advisory only; nothing here
// switches tests automatically.
package stats

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Record holds the association statistics for one variable pair.
// Computed once per pair and never mutated afterwards.
type Record struct {
	RowVar   string
	ColVar   string
	Size     int // grand total of weighted counts, rounded for reporting
	ChiSq    float64
	DF       int
	CramersV float64
	PValue   float64
	// Valid is false for degenerate tables (fewer than two observed
	// categories on either margin); the float fields are then NaN.
	Valid bool
}

// FromTable computes the statistics for a matrix of weighted counts
// (rows × columns). Percentage tables must not be passed here.
// Categories with a zero margin are dropped before computing, so DF
// reflects observed categories only. Degenerate tables yield a Record
// with Valid == false rather than an error.
func FromTable(counts [][]float64) Record {
	rowTot, colTot, grand := margins(counts)

	// Observed categories: margins > 0.
	var rows, cols []int
	for i, t := range rowTot {
		if t > 0 {
			rows = append(rows, i)
		}
	}
	for j, t := range colTot {
		if t > 0 {
			cols = append(cols, j)
		}
	}

	rec := Record{
		Size:     int(math.Round(grand)),
		ChiSq:    math.NaN(),
		CramersV: math.NaN(),
		PValue:   math.NaN(),
	}
	if len(rows) < 2 || len(cols) < 2 || grand <= 0 {
		return rec
	}

	var chisq float64
	for _, i := range rows {
		for _, j := range cols {
			expected := rowTot[i] * colTot[j] / grand
			if expected <= 0 {
				continue
			}
			d := counts[i][j] - expected
			chisq += d * d / expected
		}
	}
	df := (len(rows) - 1) * (len(cols) - 1)
	minDim := len(rows) - 1
	if c := len(cols) - 1; c < minDim {
		minDim = c
	}

	rec.Valid = true
	rec.ChiSq = chisq
	rec.DF = df
	rec.CramersV = math.Sqrt(chisq / (grand * float64(minDim)))
	if rec.CramersV > 1 {
		rec.CramersV = 1
	}
	rec.PValue = distuv.ChiSquared{K: float64(df)}.Survival(chisq)
	return rec
}

func margins(counts [][]float64) (rowTot, colTot []float64, grand float64) {
	rowTot = make([]float64, len(counts))
	for i, row := range counts {
		if len(colTot) < len(row) {
			grown := make([]float64, len(row))
			copy(grown, colTot)
			colTot = grown
		}
		for j, v := range row {
			rowTot[i] += v
			colTot[j] += v
			grand += v
		}
	}
	return rowTot, colTot, grand
}

// Summary renders the record as a one-line annotation for report blocks.
// Invalid records render NA for the undefined statistics.
func (r Record) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "n = %d", r.Size)
	if !r.Valid {
		b.WriteString(", Chisq = NA, DF = 0, Cramer's V = NA, p = NA")
		return b.String()
	}
	fmt.Fprintf(&b, ", Chisq = %.3f, DF = %d, Cramer's V = %.3f, p = %.4f",
		r.ChiSq, r.DF, r.CramersV, r.PValue)
	return b.String()
}
