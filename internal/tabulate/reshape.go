package tabulate

import "fmt"

// ToWide pivots long-form cells into the wide layout. Row and column
// category order follows first appearance in the input.
func ToWide(rowVar string, long []LongRow) Wide {
	var rowCats, colCats []string
	rowIdx := map[string]int{}
	colIdx := map[string]int{}
	for _, lr := range long {
		if _, ok := rowIdx[lr.RowCat]; !ok {
			rowIdx[lr.RowCat] = len(rowCats)
			rowCats = append(rowCats, lr.RowCat)
		}
		if _, ok := colIdx[lr.ColCat]; !ok {
			colIdx[lr.ColCat] = len(colCats)
			colCats = append(colCats, lr.ColCat)
		}
	}
	w := Wide{RowVar: rowVar, ColCats: colCats}
	for _, r := range rowCats {
		w.Rows = append(w.Rows, WideRow{RowCat: r, Values: make([]float64, len(colCats))})
	}
	for _, lr := range long {
		w.Rows[rowIdx[lr.RowCat]].Values[colIdx[lr.ColCat]] = lr.Value
	}
	return w
}

// ToLong unpivots a wide table into long-form cells, row-major.
func ToLong(w Wide) ([]LongRow, error) {
	var out []LongRow
	for _, r := range w.Rows {
		if len(r.Values) != len(w.ColCats) {
			return nil, fmt.Errorf("wide row %q has %d values, want %d", r.RowCat, len(r.Values), len(w.ColCats))
		}
		for j, c := range w.ColCats {
			out = append(out, LongRow{RowCat: r.RowCat, ColCat: c, Value: r.Values[j]})
		}
	}
	return out, nil
}
