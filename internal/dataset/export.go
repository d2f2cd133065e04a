package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/CrossTally/crosstally-cli/internal/utils"
)

// SetNumeric replaces an existing numeric column's values, or appends a new
// numeric column when the name is unknown. Used to write calibrated weights
// back into a dataset before export.
func (ds *Dataset) SetNumeric(name string, values []float64) error {
	if err := ds.checkRows(name, len(values)); err != nil {
		return err
	}
	if idx, ok := ds.index[lowerKey(name)]; ok {
		c := ds.cols[idx]
		if c.kind != KindNumeric {
			return fmt.Errorf("column %q is not numeric (got %s)", name, c.kind)
		}
		c.nums = append([]float64(nil), values...)
		return nil
	}
	return ds.AddNumeric(name, values)
}

// WriteCSV writes the dataset as a delimited file, atomically. Missing
// observations are written as empty fields.
func (ds *Dataset) WriteCSV(path string, delim rune) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if delim != 0 {
		w.Comma = delim
	}
	if err := w.Write(ds.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(ds.cols))
	for i := 0; i < ds.rows; i++ {
		for j, c := range ds.cols {
			row[j] = c.Value(i)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
