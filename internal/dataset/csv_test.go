package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var surveyRows = []string{
	"Region;Gender;Score;W",
	"North;M;7,5;1,0",
	"North;F;8,0;2,0",
	"South;M;6,5;1,5",
	"South;F;;0,5",
	";M;5,0;1,0",
}

func writeSurveyCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	if err := os.WriteFile(path, []byte(strings.Join(surveyRows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	opt := DefaultReadOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	opt.Weight = "W"

	ds, err := ReadCSV(writeSurveyCSV(t), opt)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Name() != "survey.csv" {
		t.Fatalf("name = %q", ds.Name())
	}
	if ds.Len() != 5 {
		t.Fatalf("rows = %d, want 5", ds.Len())
	}
	if diff := cmp.Diff([]string{"Region", "Gender", "Score", "W"}, ds.Columns()); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}

	region, err := ds.Factor("Region")
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	if diff := cmp.Diff([]string{"North", "South"}, region.Levels()); diff != "" {
		t.Fatalf("region levels (-want +got):\n%s", diff)
	}
	if !region.IsMissing(4) {
		t.Fatalf("row 5 region should be missing")
	}

	score, err := ds.Column("Score")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if score.Kind() != KindNumeric {
		t.Fatalf("score kind = %s", score.Kind())
	}
	if score.Float(0) != 7.5 {
		t.Fatalf("score[0] = %g", score.Float(0))
	}
	if !math.IsNaN(score.Float(3)) {
		t.Fatalf("score[3] should be missing")
	}

	if ds.WeightColumn() != "W" {
		t.Fatalf("weight column = %q", ds.WeightColumn())
	}
	w, err := ds.Weights("")
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	var total float64
	for _, v := range w {
		total += v
	}
	if math.Abs(total-6.0) > 1e-9 {
		t.Fatalf("weight total = %g, want 6", total)
	}
}

func TestReadCSVNonNumericWeight(t *testing.T) {
	opt := DefaultReadOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	opt.Weight = "Gender"

	_, err := ReadCSV(writeSurveyCSV(t), opt)
	if err == nil || !strings.Contains(err.Error(), `weight column "Gender" is not numeric`) {
		t.Fatalf("want non-numeric weight error, got %v", err)
	}
}

func TestReadCSVMissingWeightColumn(t *testing.T) {
	opt := DefaultReadOptions()
	opt.Delimiter = ';'
	opt.Weight = "Nope"

	_, err := ReadCSV(writeSurveyCSV(t), opt)
	if err == nil || !strings.Contains(err.Error(), `"Nope"`) {
		t.Fatalf("want missing-column error, got %v", err)
	}
}

func TestReadCSVSniffsTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.tsv")
	content := "A\tB\nx\t1\ny\t2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
	ds, err := ReadCSV(path, DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Len() != 2 || len(ds.Columns()) != 2 {
		t.Fatalf("got %d rows, %d cols", ds.Len(), len(ds.Columns()))
	}
	b, err := ds.Column("B")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if b.Kind() != KindNumeric || b.Float(1) != 2 {
		t.Fatalf("B kind=%s value=%g", b.Kind(), b.Float(1))
	}
}

func TestReadCSVLocaleAutoDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locale.csv")
	content := "N\n1.000,5\n2.000,5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	ds, err := ReadCSV(path, DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	n, err := ds.Column("N")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if n.Float(0) != 1000.5 || n.Float(1) != 2000.5 {
		t.Fatalf("locale parse: %g, %g", n.Float(0), n.Float(1))
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ds := New("out")
	if err := ds.AddFactor("Q1", []string{"Yes", "No", ""}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	if err := ds.AddNumeric("W", []float64{1.5, 2, math.NaN()}); err != nil {
		t.Fatalf("AddNumeric: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ds.WriteCSV(path, ';'); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	opt := DefaultReadOptions()
	opt.Delimiter = ';'
	back, err := ReadCSV(path, opt)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	q1, err := back.Factor("Q1")
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	if q1.Value(0) != "Yes" || !q1.IsMissing(2) {
		t.Fatalf("round trip q1: %q missing=%v", q1.Value(0), q1.IsMissing(2))
	}
	w, err := back.Column("W")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if w.Float(0) != 1.5 || !math.IsNaN(w.Float(2)) {
		t.Fatalf("round trip w: %g, NaN=%v", w.Float(0), math.IsNaN(w.Float(2)))
	}
}

func TestSetNumericReplacesAndAppends(t *testing.T) {
	ds := New("x")
	if err := ds.AddNumeric("W", []float64{1, 2}); err != nil {
		t.Fatalf("AddNumeric: %v", err)
	}
	if err := ds.SetNumeric("W", []float64{3, 4}); err != nil {
		t.Fatalf("SetNumeric replace: %v", err)
	}
	c, _ := ds.Column("W")
	if c.Float(0) != 3 || c.Float(1) != 4 {
		t.Fatalf("replace failed: %g %g", c.Float(0), c.Float(1))
	}
	if err := ds.SetNumeric("W2", []float64{5, 6}); err != nil {
		t.Fatalf("SetNumeric append: %v", err)
	}
	c2, err := ds.Column("W2")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if c2.Float(1) != 6 {
		t.Fatalf("append failed: %g", c2.Float(1))
	}
}
