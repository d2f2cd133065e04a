// Package compile iterates crosstab construction and association statistics
// over the cross-product of two variable lists, assembling either a
// consolidated printable report or a flat statistics table, optionally
// persisted to a delimited file.
package compile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/CrossTally/crosstally-cli/internal/dataset"
	"github.com/CrossTally/crosstally-cli/internal/render"
	"github.com/CrossTally/crosstally-cli/internal/stats"
	"github.com/CrossTally/crosstally-cli/internal/tabulate"
	"github.com/CrossTally/crosstally-cli/internal/utils"
)

// Mode selects the compiler's output shape.
type Mode int

const (
	// ModeReport produces consolidated printable crosstab blocks with a
	// statistics summary line after each block.
	ModeReport Mode = iota
	// ModeStats produces one flat statistics record per variable pair.
	ModeStats
)

// Options controls a compile run.
type Options struct {
	// Weight overrides the dataset's designated weight column.
	Weight string
	Mode   Mode
	// Round applies to report-mode percentage cells.
	Round int
	// Delimiter for file output and report table lines. 0 means comma.
	Delimiter rune
	// OutputPath names the output file. When empty, the default name for the
	// mode is used under OutputDir. Existing files are overwritten.
	OutputPath string
	OutputDir  string
	ReportName string // default file name in report mode
	StatsName  string // default file name in stats mode
	// NoFile skips persistence; the result is returned in memory only.
	NoFile bool
}

// Result is the outcome of one compile run.
type Result struct {
	ID      string // run identifier
	Path    string // output file path, "" when NoFile
	Records []stats.Record
	Text    string // consolidated report (report mode) or delimited stats table
}

// Run compiles every (row variable, column variable) pair. Any variable
// absent from the dataset aborts the whole run before any output is
// produced.
func Run(ds *dataset.Dataset, rowVars, colVars []string, opt Options) (*Result, error) {
	if len(rowVars) == 0 || len(colVars) == 0 {
		return nil, fmt.Errorf("compile: need at least one row variable and one column variable")
	}
	// Validate every variable up front: no partial output on a bad name.
	for _, v := range append(append([]string(nil), rowVars...), colVars...) {
		if _, err := ds.Factor(v); err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
	}

	res := &Result{ID: uuid.NewString()}
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}

	var b strings.Builder
	for _, colVar := range colVars {
		for _, rowVar := range rowVars {
			ct, err := tabulate.Build(ds, rowVar, colVar, tabulate.CrosstabOptions{
				Weight:  opt.Weight,
				Percent: opt.Mode == ModeReport,
				Totals:  tabulate.TotalsBoth,
				Round:   opt.Round,
				Stats:   true,
			})
			if err != nil {
				return nil, fmt.Errorf("compile %s x %s: %w", rowVar, colVar, err)
			}
			res.Records = append(res.Records, *ct.Stats)
			if opt.Mode != ModeReport {
				continue
			}
			header, rows := render.WideTable(ct.Wide(), opt.Round)
			block, err := render.Delimited(header, rows, delim)
			if err != nil {
				return nil, fmt.Errorf("compile %s x %s: %w", rowVar, colVar, err)
			}
			fmt.Fprintf(&b, "%s x %s (column %%)\n", ct.RowVar, ct.ColVar)
			b.Write(block)
			fmt.Fprintf(&b, "Statistics: %s\n\n", ct.Stats.Summary())
		}
	}

	switch opt.Mode {
	case ModeReport:
		res.Text = b.String()
	case ModeStats:
		header, rows := render.StatsTable(res.Records)
		out, err := render.Delimited(header, rows, delim)
		if err != nil {
			return nil, fmt.Errorf("compile stats table: %w", err)
		}
		res.Text = string(out)
	}

	if opt.NoFile {
		return res, nil
	}
	path := opt.OutputPath
	if path == "" {
		name := opt.ReportName
		if opt.Mode == ModeStats {
			name = opt.StatsName
		}
		if name == "" {
			if opt.Mode == ModeStats {
				name = "crosstab_stats.csv"
			} else {
				name = "crosstab_report.csv"
			}
		}
		if opt.OutputDir != "" {
			if err := utils.EnsureDir(opt.OutputDir); err != nil {
				return nil, fmt.Errorf("ensure output dir: %w", err)
			}
		}
		path = filepath.Join(opt.OutputDir, name)
	}
	if err := utils.SafeWriteFile(path, []byte(res.Text)); err != nil {
		return nil, fmt.Errorf("write compile output: %w", err)
	}
	res.Path = path
	return res, nil
}
