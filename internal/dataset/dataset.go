package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies how a column stores its observations.
type Kind int

const (
	// KindFactor is a categorical column: an ordered level set plus a
	// per-row level index.
	KindFactor Kind = iota
	// KindNumeric is a float64 column; missing values are NaN.
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindFactor:
		return "factor"
	case KindNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Dataset is an in-memory table of respondent rows. Columns are either
// factors (labelled categoricals) or numerics; at most one numeric column
// may be designated as the design weight.
type Dataset struct {
	name   string
	rows   int
	cols   []*Column
	index  map[string]int // lower-cased column name -> position
	weight string         // designated weight column, "" means uniform weight 1
}

// Column holds one named column of observations.
type Column struct {
	name   string
	kind   Kind
	levels []string // factor level labels, in declared order
	codes  []int    // per-row level index; -1 marks missing
	nums   []float64
}

// New constructs an empty dataset with the given display name.
func New(name string) *Dataset {
	return &Dataset{name: name, index: make(map[string]int)}
}

// Name returns the dataset's display name (typically the source file base name).
func (ds *Dataset) Name() string { return ds.name }

// Len returns the number of respondent rows.
func (ds *Dataset) Len() int { return ds.rows }

// Columns returns the column names in declared order.
func (ds *Dataset) Columns() []string {
	out := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		out[i] = c.name
	}
	return out
}

// WeightColumn returns the designated weight column name, or "" if none.
func (ds *Dataset) WeightColumn() string { return ds.weight }

func lowerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (ds *Dataset) checkRows(name string, n int) error {
	if len(ds.cols) > 0 && n != ds.rows {
		return fmt.Errorf("column %q has %d rows, dataset has %d", name, n, ds.rows)
	}
	return nil
}

func (ds *Dataset) add(c *Column, n int) error {
	key := lowerKey(c.name)
	if _, ok := ds.index[key]; ok {
		return fmt.Errorf("duplicate column %q", c.name)
	}
	if err := ds.checkRows(c.name, n); err != nil {
		return err
	}
	ds.rows = n
	ds.index[key] = len(ds.cols)
	ds.cols = append(ds.cols, c)
	return nil
}

// AddFactor appends a categorical column. If levels is empty, levels are
// taken in order of first appearance. Empty strings are treated as missing;
// a non-empty value outside an explicit level set is an error.
func (ds *Dataset) AddFactor(name string, values []string, levels ...string) error {
	c := &Column{name: name, kind: KindFactor}
	byLabel := make(map[string]int)
	explicit := len(levels) > 0
	for _, l := range levels {
		if _, ok := byLabel[l]; ok {
			return fmt.Errorf("column %q: duplicate level %q", name, l)
		}
		byLabel[l] = len(c.levels)
		c.levels = append(c.levels, l)
	}
	c.codes = make([]int, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			c.codes[i] = -1
			continue
		}
		idx, ok := byLabel[v]
		if !ok {
			if explicit {
				return fmt.Errorf("column %q: value %q not in declared levels", name, v)
			}
			idx = len(c.levels)
			byLabel[v] = idx
			c.levels = append(c.levels, v)
		}
		c.codes[i] = idx
	}
	return ds.add(c, len(values))
}

// AddNumeric appends a float64 column. NaN marks missing.
func (ds *Dataset) AddNumeric(name string, values []float64) error {
	c := &Column{name: name, kind: KindNumeric, nums: append([]float64(nil), values...)}
	return ds.add(c, len(values))
}

// SetWeight designates an existing numeric column as the design weight.
// Weights must be non-negative; any negative value is rejected.
func (ds *Dataset) SetWeight(name string) error {
	c, err := ds.Column(name)
	if err != nil {
		return err
	}
	if c.kind != KindNumeric {
		return fmt.Errorf("weight column %q is not numeric (got %s)", name, c.kind)
	}
	for i, v := range c.nums {
		if v < 0 {
			return fmt.Errorf("weight column %q has negative value %g at row %d", name, v, i+1)
		}
	}
	ds.weight = name
	return nil
}

// Column resolves a column by name (case-insensitive). This is the single
// validated boundary for string-based column lookup; everything downstream
// works with the returned typed accessor.
func (ds *Dataset) Column(name string) (*Column, error) {
	idx, ok := ds.index[lowerKey(name)]
	if !ok {
		return nil, fmt.Errorf("column %q not found in dataset %q", name, ds.name)
	}
	return ds.cols[idx], nil
}

// Factor resolves a column and requires it to be categorical.
func (ds *Dataset) Factor(name string) (*Column, error) {
	c, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindFactor {
		return nil, fmt.Errorf("column %q is not categorical (got %s)", name, c.kind)
	}
	return c, nil
}

// Weights materializes the per-row weight vector. name overrides the
// designated weight column; with neither set, every row weighs 1.
// Missing weights count as 0 so they drop out of every weighted sum.
func (ds *Dataset) Weights(name string) ([]float64, error) {
	if name == "" {
		name = ds.weight
	}
	if name == "" {
		w := make([]float64, ds.rows)
		for i := range w {
			w[i] = 1
		}
		return w, nil
	}
	c, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindNumeric {
		return nil, fmt.Errorf("weight column %q is not numeric (got %s)", name, c.kind)
	}
	w := make([]float64, ds.rows)
	for i, v := range c.nums {
		switch {
		case math.IsNaN(v):
			w[i] = 0
		case v < 0:
			return nil, fmt.Errorf("weight column %q has negative value %g at row %d", name, v, i+1)
		default:
			w[i] = v
		}
	}
	return w, nil
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// Levels returns the factor levels in declared order. Nil for numerics.
func (c *Column) Levels() []string {
	return append([]string(nil), c.levels...)
}

// Code returns the level index at row i, or -1 when missing or numeric.
func (c *Column) Code(i int) int {
	if c.kind != KindFactor {
		return -1
	}
	return c.codes[i]
}

// IsMissing reports whether the observation at row i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.kind == KindFactor {
		return c.codes[i] < 0
	}
	return math.IsNaN(c.nums[i])
}

// Float returns the numeric value at row i; NaN for missing or factors.
func (c *Column) Float(i int) float64 {
	if c.kind != KindNumeric {
		return math.NaN()
	}
	return c.nums[i]
}

// Value renders the observation at row i as a string, "" when missing.
func (c *Column) Value(i int) string {
	if c.kind == KindFactor {
		code := c.codes[i]
		if code < 0 {
			return ""
		}
		return c.levels[code]
	}
	v := c.nums[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
