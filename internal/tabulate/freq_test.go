package tabulate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/CrossTally/crosstally-cli/internal/dataset"
)

// surveyFixture has a missing Q1 in the last row and a designated weight.
func surveyFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("fixture")
	if err := ds.AddFactor("Gender", []string{"M", "M", "F", "F", "M"}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	if err := ds.AddFactor("Q1", []string{"Yes", "No", "Yes", "Yes", ""}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	if err := ds.AddNumeric("W", []float64{1, 2, 1.5, 0.5, 3}); err != nil {
		t.Fatalf("AddNumeric: %v", err)
	}
	if err := ds.SetWeight("W"); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}
	return ds
}

func TestFrequenciesOneVariable(t *testing.T) {
	ds := surveyFixture(t)
	ft, err := Frequencies(ds, []string{"Gender"}, FreqOptions{Percent: true, Round: 2})
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}
	want := &FreqTable{
		GroupVars: []string{"Gender"},
		Rows: []FreqRow{
			{Groups: []string{"M"}, Count: 6, Perc: 75},
			{Groups: []string{"F"}, Count: 2, Perc: 25},
		},
	}
	if diff := cmp.Diff(want, ft); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequenciesTwoVariables(t *testing.T) {
	ds := surveyFixture(t)
	ft, err := Frequencies(ds, []string{"Gender", "Q1"}, FreqOptions{Percent: true, Round: 2})
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}
	// row 5 has no Q1 value, so its weight drops out of every group
	want := &FreqTable{
		GroupVars: []string{"Gender", "Q1"},
		Rows: []FreqRow{
			{Groups: []string{"M", "Yes"}, Count: 1, Perc: 33.33},
			{Groups: []string{"M", "No"}, Count: 2, Perc: 66.67},
			{Groups: []string{"F", "Yes"}, Count: 2, Perc: 100},
		},
	}
	if diff := cmp.Diff(want, ft); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequenciesUnweighted(t *testing.T) {
	ds := dataset.New("plain")
	if err := ds.AddFactor("Q", []string{"a", "b", "a", "a"}); err != nil {
		t.Fatalf("AddFactor: %v", err)
	}
	ft, err := Frequencies(ds, []string{"Q"}, FreqOptions{})
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}
	if ft.Rows[0].Count != 3 || ft.Rows[1].Count != 1 {
		t.Fatalf("counts = %g, %g", ft.Rows[0].Count, ft.Rows[1].Count)
	}
}

func TestFrequenciesErrors(t *testing.T) {
	ds := surveyFixture(t)
	if _, err := Frequencies(ds, nil, FreqOptions{}); err == nil {
		t.Fatalf("want arity error for zero groups")
	}
	if _, err := Frequencies(ds, []string{"a", "b", "c"}, FreqOptions{}); err == nil {
		t.Fatalf("want arity error for three groups")
	}
	if _, err := Frequencies(ds, []string{"W"}, FreqOptions{}); err == nil {
		t.Fatalf("want not-categorical error for numeric group")
	}
	_, err := Frequencies(ds, []string{"Nope"}, FreqOptions{})
	if err == nil || !strings.Contains(err.Error(), `"Nope"`) {
		t.Fatalf("want missing-column error, got %v", err)
	}
}
