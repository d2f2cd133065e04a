// Package tabulate builds weighted frequency tables and two-way
// cross-tabulations from survey datasets.
package tabulate

import (
	"fmt"
	"math"

	"github.com/CrossTally/crosstally-cli/internal/dataset"
)

// FreqOptions controls frequency aggregation.
type FreqOptions struct {
	// Weight overrides the dataset's designated weight column.
	Weight string
	// Percent adds a share column. With two grouping variables the share is
	// computed within the outer group, not of the grand total.
	Percent bool
	// Round is the number of decimals applied to numeric output columns
	// only; negative disables rounding.
	Round int
}

// FreqRow is one observed combination of grouping values.
type FreqRow struct {
	Groups []string // one label per grouping variable
	Count  float64
	Perc   float64 // populated when FreqOptions.Percent
}

// FreqTable pairs every observed combination of grouping values with the
// weighted sum of rows sharing it. Row order follows factor level order.
type FreqTable struct {
	GroupVars []string
	Rows      []FreqRow
}

// Frequencies aggregates the weighted count over one or two grouping
// columns. Rows with a missing value in any grouping column are excluded.
func Frequencies(ds *dataset.Dataset, groups []string, opt FreqOptions) (*FreqTable, error) {
	if len(groups) == 0 || len(groups) > 2 {
		return nil, fmt.Errorf("frequencies: want 1 or 2 grouping columns, got %d", len(groups))
	}
	cols := make([]*dataset.Column, len(groups))
	for i, g := range groups {
		c, err := ds.Factor(g)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	w, err := ds.Weights(opt.Weight)
	if err != nil {
		return nil, err
	}

	outer := cols[0]
	outerLevels := outer.Levels()
	if len(groups) == 1 {
		sums := make([]float64, len(outerLevels))
		seen := make([]bool, len(outerLevels))
		var total float64
		for i := 0; i < ds.Len(); i++ {
			code := outer.Code(i)
			if code < 0 {
				continue
			}
			sums[code] += w[i]
			seen[code] = true
			total += w[i]
		}
		t := &FreqTable{GroupVars: []string{outer.Name()}}
		for code, label := range outerLevels {
			if !seen[code] {
				continue
			}
			row := FreqRow{Groups: []string{label}, Count: roundTo(sums[code], opt.Round)}
			if opt.Percent && total > 0 {
				row.Perc = roundTo(100*sums[code]/total, opt.Round)
			}
			t.Rows = append(t.Rows, row)
		}
		return t, nil
	}

	inner := cols[1]
	innerLevels := inner.Levels()
	nIn := len(innerLevels)
	sums := make([]float64, len(outerLevels)*nIn)
	seen := make([]bool, len(outerLevels)*nIn)
	outerSums := make([]float64, len(outerLevels))
	for i := 0; i < ds.Len(); i++ {
		oc, ic := outer.Code(i), inner.Code(i)
		if oc < 0 || ic < 0 {
			continue
		}
		sums[oc*nIn+ic] += w[i]
		seen[oc*nIn+ic] = true
		outerSums[oc] += w[i]
	}
	t := &FreqTable{GroupVars: []string{outer.Name(), inner.Name()}}
	for oc, ol := range outerLevels {
		for ic, il := range innerLevels {
			if !seen[oc*nIn+ic] {
				continue
			}
			row := FreqRow{
				Groups: []string{ol, il},
				Count:  roundTo(sums[oc*nIn+ic], opt.Round),
			}
			if opt.Percent && outerSums[oc] > 0 {
				row.Perc = roundTo(100*sums[oc*nIn+ic]/outerSums[oc], opt.Round)
			}
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

// roundTo rounds v to places decimals; negative places is a no-op.
func roundTo(v float64, places int) float64 {
	if places < 0 || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
