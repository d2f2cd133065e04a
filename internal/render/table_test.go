package render

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/CrossTally/crosstally-cli/internal/stats"
	"github.com/CrossTally/crosstally-cli/internal/tabulate"
)

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		v     float64
		round int
		want  string
	}{
		{1.23456, 2, "1.23"},
		{1.5, 0, "2"},
		{1.5, -1, "1.5"},
		{math.NaN(), 2, "NA"},
		{math.NaN(), -1, "NA"},
		{0, 3, "0.000"},
	}
	for _, c := range cases {
		if got := FormatFloat(c.v, c.round); got != c.want {
			t.Fatalf("FormatFloat(%g, %d) = %q, want %q", c.v, c.round, got, c.want)
		}
	}
}

func TestDelimited(t *testing.T) {
	out, err := Delimited([]string{"a", "b"}, [][]string{{"1", "x;y"}, {"2", "z"}}, ';')
	if err != nil {
		t.Fatalf("Delimited: %v", err)
	}
	want := "a;b\n1;\"x;y\"\n2;z\n"
	if string(out) != want {
		t.Fatalf("delimited = %q, want %q", string(out), want)
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown([]string{"A", "B"}, [][]string{{"1", "2"}})
	want := "| A | B |\n| --- | --- |\n| 1 | 2 |\n"
	if got != want {
		t.Fatalf("markdown = %q, want %q", got, want)
	}
}

func TestWideTable(t *testing.T) {
	w := tabulate.Wide{
		RowVar:  "Gender",
		ColCats: []string{"Yes", "No", "Total"},
		Rows: []tabulate.WideRow{
			{RowCat: "M", Values: []float64{33.333, 100, 60}},
			{RowCat: "Total", Values: []float64{100, 100, 100}},
		},
	}
	header, rows := WideTable(w, 1)
	if diff := cmp.Diff([]string{"Gender", "Yes", "No", "Total"}, header); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	want := [][]string{
		{"M", "33.3", "100.0", "60.0"},
		{"Total", "100.0", "100.0", "100.0"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
}

func TestLongTable(t *testing.T) {
	long := []tabulate.LongRow{
		{RowCat: "M", ColCat: "Yes", Value: 1},
		{RowCat: "M", ColCat: "No", Value: 2},
	}
	header, rows := LongTable("Gender", "Q1", long, -1)
	if diff := cmp.Diff([]string{"Gender", "Q1", "Value"}, header); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if len(rows) != 2 || rows[1][2] != "2" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestFreqTable(t *testing.T) {
	ft := &tabulate.FreqTable{
		GroupVars: []string{"Gender", "Q1"},
		Rows: []tabulate.FreqRow{
			{Groups: []string{"M", "Yes"}, Count: 1, Perc: 33.33},
		},
	}
	header, rows := FreqTable(ft, true, 2)
	if diff := cmp.Diff([]string{"Gender", "Q1", "Freq", "Perc"}, header); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"M", "Yes", "1.00", "33.33"}}, rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}

	header, rows = FreqTable(ft, false, 0)
	if len(header) != 3 || len(rows[0]) != 3 {
		t.Fatalf("percent column not dropped: %v / %v", header, rows)
	}
}

func TestStatsTable(t *testing.T) {
	valid := stats.FromTable([][]float64{{10, 20}, {20, 10}})
	valid.RowVar, valid.ColVar = "Gender", "Q1"
	invalid := stats.FromTable([][]float64{{5, 3}})
	invalid.RowVar, invalid.ColVar = "Gender", "Region"

	header, rows := StatsTable([]stats.Record{valid, invalid})
	if diff := cmp.Diff([]string{"Row_Var", "Col_Var", "Size", "Chisq", "DF", "CramersV", "p_value"}, header); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Gender", "Q1", "60", "6.667", "1", "0.333", "0.0098"}, rows[0]); diff != "" {
		t.Fatalf("valid row (-want +got):\n%s", diff)
	}
	// degenerate pairs report DF 0 and NA statistics
	if diff := cmp.Diff([]string{"Gender", "Region", "8", "NA", "0", "NA", "NA"}, rows[1]); diff != "" {
		t.Fatalf("invalid row (-want +got):\n%s", diff)
	}
}

func TestBarChartSVG(t *testing.T) {
	w := tabulate.Wide{
		RowVar:  "Gender",
		ColCats: []string{"Yes", "No"},
		Rows: []tabulate.WideRow{
			{RowCat: "M", Values: []float64{33.3, 100}},
			{RowCat: "F", Values: []float64{66.7, 0}},
		},
	}
	svg := string(BarChartSVG(w, ChartOptions{
		Title:   `Gender x Q1 <"column %">`,
		Palette: []string{"#112233", "#445566"},
		Width:   640,
		Height:  400,
	}))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="640" height="400"`) {
		t.Fatalf("svg prelude: %q", svg[:80])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("svg not closed")
	}
	// 4 bars + background + 2 legend swatches
	if n := strings.Count(svg, "<rect"); n != 7 {
		t.Fatalf("rect count = %d, want 7", n)
	}
	if !strings.Contains(svg, `fill="#112233"`) || !strings.Contains(svg, `fill="#445566"`) {
		t.Fatalf("palette colours not applied")
	}
	if strings.Contains(svg, `<"column`) {
		t.Fatalf("title not escaped")
	}
	if !strings.Contains(svg, "&lt;&quot;column") {
		t.Fatalf("escaped title missing")
	}
	if !strings.Contains(svg, ">M<") || !strings.Contains(svg, ">Yes<") {
		t.Fatalf("axis or legend labels missing")
	}
}

func TestBarChartSVGDefaults(t *testing.T) {
	svg := string(BarChartSVG(tabulate.Wide{}, ChartOptions{}))
	if !strings.Contains(svg, `width="720" height="420"`) {
		t.Fatalf("default dimensions missing: %q", svg[:80])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("svg not closed")
	}
}
