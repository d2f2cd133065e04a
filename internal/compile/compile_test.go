package compile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CrossTally/crosstally-cli/internal/dataset"
)

func compileFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("fixture")
	if err := ds.AddFactor("Gender", []string{"M", "M", "F", "F", "M", "F"}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	if err := ds.AddFactor("Region", []string{"N", "S", "N", "S", "N", "S"}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	if err := ds.AddFactor("Q1", []string{"Yes", "No", "Yes", "Yes", "No", "No"}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	return ds
}

func TestRunReportMode(t *testing.T) {
	ds := compileFixture(t)
	dir := t.TempDir()
	res, err := Run(ds, []string{"Gender", "Region"}, []string{"Q1"}, Options{
		Mode:      ModeReport,
		Round:     1,
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ID == "" {
		t.Fatalf("run id not set")
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	if res.Records[0].RowVar != "Gender" || res.Records[1].RowVar != "Region" {
		t.Fatalf("record order: %q, %q", res.Records[0].RowVar, res.Records[1].RowVar)
	}

	if !strings.Contains(res.Text, "Gender x Q1 (column %)") {
		t.Fatalf("missing first block header:\n%s", res.Text)
	}
	if !strings.Contains(res.Text, "Region x Q1 (column %)") {
		t.Fatalf("missing second block header:\n%s", res.Text)
	}
	if strings.Count(res.Text, "Statistics: n = 6") != 2 {
		t.Fatalf("want a statistics line per block:\n%s", res.Text)
	}
	if !strings.Contains(res.Text, "Total") {
		t.Fatalf("report should carry marginal totals:\n%s", res.Text)
	}

	wantPath := filepath.Join(dir, "crosstab_report.csv")
	if res.Path != wantPath {
		t.Fatalf("path = %q, want %q", res.Path, wantPath)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != res.Text {
		t.Fatalf("file content differs from in-memory report")
	}
}

func TestRunStatsMode(t *testing.T) {
	ds := compileFixture(t)
	res, err := Run(ds, []string{"Gender"}, []string{"Q1", "Region"}, Options{
		Mode:   ModeStats,
		NoFile: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Path != "" {
		t.Fatalf("no-file run wrote %q", res.Path)
	}
	lines := strings.Split(strings.TrimSpace(res.Text), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats lines = %d, want header + 2:\n%s", len(lines), res.Text)
	}
	if lines[0] != "Row_Var,Col_Var,Size,Chisq,DF,CramersV,p_value" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Gender,Q1,6,") {
		t.Fatalf("first record = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Gender,Region,6,") {
		t.Fatalf("second record = %q", lines[2])
	}
}

func TestRunAbortsOnUnknownVariable(t *testing.T) {
	ds := compileFixture(t)
	dir := t.TempDir()
	_, err := Run(ds, []string{"Gender", "Nope"}, []string{"Q1"}, Options{
		Mode:      ModeReport,
		OutputDir: dir,
	})
	if err == nil || !strings.Contains(err.Error(), `"Nope"`) {
		t.Fatalf("want unknown-variable error, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("partial output written: %v", entries)
	}
}

func TestRunEmptyVariableLists(t *testing.T) {
	ds := compileFixture(t)
	if _, err := Run(ds, nil, []string{"Q1"}, Options{NoFile: true}); err == nil {
		t.Fatalf("want error for empty row list")
	}
	if _, err := Run(ds, []string{"Gender"}, nil, Options{NoFile: true}); err == nil {
		t.Fatalf("want error for empty column list")
	}
}

func TestRunExplicitOutputPath(t *testing.T) {
	ds := compileFixture(t)
	path := filepath.Join(t.TempDir(), "out", "pairs.csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	res, err := Run(ds, []string{"Gender"}, []string{"Q1"}, Options{
		Mode:       ModeStats,
		OutputPath: path,
		Delimiter:  ';',
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Path != path {
		t.Fatalf("path = %q, want %q", res.Path, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "Row_Var;Col_Var;") {
		t.Fatalf("delimiter not applied: %q", string(data))
	}
}
