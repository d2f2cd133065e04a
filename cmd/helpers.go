package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CrossTally/crosstally-cli/internal/dataset"
	"github.com/CrossTally/crosstally-cli/internal/weight"
)

// parseDelimiter maps a flag/config spelling to a delimiter rune.
// Empty input returns 0, meaning auto-detect.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab')", s)
	}
}

// parseDecimal maps a flag/config spelling to a decimal separator rune.
// Empty input returns 0, meaning auto-detect per value.
func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ".", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", s)
	}
}

// readOptions assembles dataset read options from config and global flags.
func readOptions(weightCol string) (dataset.ReadOptions, error) {
	opt := dataset.DefaultReadOptions()
	c := activeConfig()
	delim, err := parseDelimiter(c.Delimiter)
	if err != nil {
		return opt, err
	}
	dec, err := parseDecimal(c.Decimal)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = delim
	opt.DecimalSeparator = dec
	opt.Weight = weightCol
	return opt, nil
}

// openDataset loads a survey file, choosing the loader by extension.
func openDataset(path, weightCol, sheetName string, sheetIndex int) (*dataset.Dataset, error) {
	opt, err := readOptions(weightCol)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return dataset.ReadXLSX(path, opt, sheetName, sheetIndex)
	}
	return dataset.ReadCSV(path, opt)
}

// parseTargets parses repeated --target specs of the form
// "Var=cat:value,cat:value". Values may be population counts or shares.
func parseTargets(specs []string) ([]weight.Target, error) {
	var out []weight.Target
	for _, spec := range specs {
		name, rest, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("bad --target %q: want Var=cat:value,...", spec)
		}
		t := weight.Target{Var: strings.TrimSpace(name), Dist: map[string]float64{}}
		for _, pair := range strings.Split(rest, ",") {
			cat, val, ok := strings.Cut(pair, ":")
			if !ok {
				return nil, fmt.Errorf("bad --target entry %q in %q: want cat:value", pair, spec)
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				return nil, fmt.Errorf("bad --target value %q in %q: %w", val, spec, err)
			}
			t.Dist[strings.TrimSpace(cat)] = f
		}
		out = append(out, t)
	}
	return out, nil
}
