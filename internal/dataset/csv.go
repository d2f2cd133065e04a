package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadOptions controls delimited-file ingestion.
type ReadOptions struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// Weight names the design-weight column; it must parse as numeric.
	Weight string
	// NumericShare is the fraction of non-missing values that must parse as
	// numbers before a column is typed numeric. Defaults to 0.9.
	NumericShare float64
}

// DefaultReadOptions returns reasonable defaults for survey files.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{NumericShare: 0.9}
}

// ReadCSV loads a delimited file into a Dataset. Column kinds are inferred:
// a column becomes numeric when at least NumericShare of its non-missing
// values parse as numbers, otherwise it becomes a factor with levels ordered
// by first appearance. The weight column, when named, must be numeric.
func ReadCSV(path string, opt ReadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: file %s is empty", filepath.Base(path))
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	names := make([]string, ncol)
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	maxRows := opt.MaxRows
	records := make([][]string, 0, 256)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		if maxRows > 0 && len(records) >= maxRows {
			continue
		}
		row := make([]string, ncol)
		copy(row, rec)
		records = append(records, row)
	}
	return build(filepath.Base(path), names, records, opt)
}

// build assembles a Dataset from raw string records, shared by the CSV and
// XLSX loaders.
func build(name string, names []string, records [][]string, opt ReadOptions) (*Dataset, error) {
	ncol := len(names)
	nrow := len(records)
	share := opt.NumericShare
	if share <= 0 || share > 1 {
		share = 0.9
	}

	ds := New(name)
	for j := 0; j < ncol; j++ {
		raw := make([]string, nrow)
		numCnt, nonNil := 0, 0
		for i, rec := range records {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[i] = v
			if v == "" {
				continue
			}
			nonNil++
			if _, ok := parseNumeric(v, opt); ok {
				numCnt++
			}
		}
		isWeight := opt.Weight != "" && strings.EqualFold(names[j], opt.Weight)
		numeric := nonNil > 0 && float64(numCnt) >= share*float64(nonNil)
		if isWeight && !numeric {
			return nil, fmt.Errorf("weight column %q is not numeric", names[j])
		}
		if numeric {
			vals := make([]float64, nrow)
			for i, v := range raw {
				if v == "" {
					vals[i] = math.NaN()
					continue
				}
				x, ok := parseNumeric(v, opt)
				if !ok {
					if isWeight {
						return nil, fmt.Errorf("weight column %q: bad value %q at row %d", names[j], v, i+2)
					}
					vals[i] = math.NaN()
					continue
				}
				vals[i] = x
			}
			if err := ds.AddNumeric(names[j], vals); err != nil {
				return nil, err
			}
			continue
		}
		if err := ds.AddFactor(names[j], raw); err != nil {
			return nil, err
		}
	}
	if opt.Weight != "" {
		if err := ds.SetWeight(opt.Weight); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Default to comma; filename heuristic avoids reading the file twice.
	return ','
}

// parseNumeric parses a number under the configured locale separators,
// auto-detecting when unset. Percent signs are stripped.
func parseNumeric(s string, opt ReadOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
