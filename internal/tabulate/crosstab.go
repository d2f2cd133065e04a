package tabulate

import (
	"github.com/CrossTally/crosstally-cli/internal/dataset"
	"github.com/CrossTally/crosstally-cli/internal/stats"
)

// TotalLabel is the pseudo-category appended for marginal sums.
const TotalLabel = "Total"

// Layout selects the output shape of a crosstab.
type Layout int

const (
	// LayoutLong emits one row per (row category, column category) cell.
	LayoutLong Layout = iota
	// LayoutWide emits one row per row category, one column per column category.
	LayoutWide
)

// Totals selects which marginal pseudo-categories to append.
type Totals int

const (
	TotalsNone Totals = iota
	TotalsRows        // append a Total row (column sums)
	TotalsCols        // append a Total column (row sums)
	TotalsBoth
)

// CrosstabOptions controls crosstab construction.
type CrosstabOptions struct {
	// Weight overrides the dataset's designated weight column.
	Weight string
	// Percent converts cells to percentages of the column total, the
	// conventional survey crosstab normalization. The Total column, when
	// present, is normalized by the grand total instead.
	Percent bool
	Totals  Totals
	// Round applies to derived numeric views only; raw counts and the
	// statistics are always computed unrounded. Negative disables.
	Round int
	// Stats attaches an association-statistics record to the table.
	Stats bool
}

// Crosstab is a two-way weighted contingency table. Counts covers every
// level combination, including empty ones as zero cells.
type Crosstab struct {
	RowVar  string
	ColVar  string
	RowCats []string
	ColCats []string
	// Counts holds raw weighted frequencies, [len(RowCats)][len(ColCats)].
	Counts [][]float64
	// Stats is set when CrosstabOptions.Stats was requested.
	Stats *stats.Record

	opt CrosstabOptions
}

// LongRow is one cell of the long layout.
type LongRow struct {
	RowCat string
	ColCat string
	Value  float64
}

// Wide is the wide layout: one row per row category.
type Wide struct {
	RowVar  string
	ColCats []string
	Rows    []WideRow
}

// WideRow is one row category with one value per column category.
type WideRow struct {
	RowCat string
	Values []float64
}

// Build constructs the weighted contingency table for rowVar × colVar.
// Rows with a missing value in either variable are excluded; level
// combinations with no respondents appear as zero cells.
func Build(ds *dataset.Dataset, rowVar, colVar string, opt CrosstabOptions) (*Crosstab, error) {
	rc, err := ds.Factor(rowVar)
	if err != nil {
		return nil, err
	}
	cc, err := ds.Factor(colVar)
	if err != nil {
		return nil, err
	}
	w, err := ds.Weights(opt.Weight)
	if err != nil {
		return nil, err
	}

	rowCats := rc.Levels()
	colCats := cc.Levels()
	counts := make([][]float64, len(rowCats))
	for i := range counts {
		counts[i] = make([]float64, len(colCats))
	}
	for i := 0; i < ds.Len(); i++ {
		ri, ci := rc.Code(i), cc.Code(i)
		if ri < 0 || ci < 0 {
			continue
		}
		counts[ri][ci] += w[i]
	}

	ct := &Crosstab{
		RowVar:  rc.Name(),
		ColVar:  cc.Name(),
		RowCats: rowCats,
		ColCats: colCats,
		Counts:  counts,
		opt:     opt,
	}
	if opt.Stats {
		rec := stats.FromTable(counts)
		rec.RowVar = ct.RowVar
		rec.ColVar = ct.ColVar
		ct.Stats = &rec
	}
	return ct, nil
}

// GrandTotal returns the sum of weighted counts over all cells.
func (ct *Crosstab) GrandTotal() float64 {
	var g float64
	for _, row := range ct.Counts {
		for _, v := range row {
			g += v
		}
	}
	return g
}

// view materializes the output matrix under the table's options: marginal
// totals appended, percent normalization, rounding.
func (ct *Crosstab) view() (rowCats, colCats []string, vals [][]float64) {
	nr, nc := len(ct.RowCats), len(ct.ColCats)
	rowTotal := ct.opt.Totals == TotalsCols || ct.opt.Totals == TotalsBoth
	colTotal := ct.opt.Totals == TotalsRows || ct.opt.Totals == TotalsBoth

	colSums := make([]float64, nc)
	rowSums := make([]float64, nr)
	var grand float64
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			v := ct.Counts[i][j]
			rowSums[i] += v
			colSums[j] += v
			grand += v
		}
	}

	rowCats = append([]string(nil), ct.RowCats...)
	colCats = append([]string(nil), ct.ColCats...)
	if colTotal {
		rowCats = append(rowCats, TotalLabel)
	}
	if rowTotal {
		colCats = append(colCats, TotalLabel)
	}

	vals = make([][]float64, len(rowCats))
	for i := range vals {
		vals[i] = make([]float64, len(colCats))
		for j := range vals[i] {
			var v float64
			switch {
			case i < nr && j < nc:
				v = ct.Counts[i][j]
			case i < nr: // Total column
				v = rowSums[i]
			case j < nc: // Total row
				v = colSums[j]
			default: // grand total corner
				v = grand
			}
			if ct.opt.Percent {
				denom := grand
				if j < nc {
					denom = colSums[j]
				}
				if denom > 0 {
					v = 100 * v / denom
				} else {
					v = 0
				}
			}
			vals[i][j] = roundTo(v, ct.opt.Round)
		}
	}
	return rowCats, colCats, vals
}

// Long returns the table in long layout, one row per cell.
func (ct *Crosstab) Long() []LongRow {
	rowCats, colCats, vals := ct.view()
	out := make([]LongRow, 0, len(rowCats)*len(colCats))
	for i, r := range rowCats {
		for j, c := range colCats {
			out = append(out, LongRow{RowCat: r, ColCat: c, Value: vals[i][j]})
		}
	}
	return out
}

// Wide returns the table in wide layout.
func (ct *Crosstab) Wide() Wide {
	rowCats, colCats, vals := ct.view()
	w := Wide{RowVar: ct.RowVar, ColCats: colCats}
	for i, r := range rowCats {
		w.Rows = append(w.Rows, WideRow{RowCat: r, Values: vals[i]})
	}
	return w
}
