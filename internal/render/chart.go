package render

import (
	"fmt"
	"strings"

	"github.com/CrossTally/crosstally-cli/internal/tabulate"
)

// ChartOptions controls SVG bar chart rendering. Palette is an immutable
// colour list resolved by the caller from configuration.
type ChartOptions struct {
	Title   string
	Palette []string
	Width   int
	Height  int
}

const (
	chartMarginLeft   = 56
	chartMarginRight  = 16
	chartMarginTop    = 40
	chartMarginBottom = 64
	legendRowHeight   = 18
)

// BarChartSVG renders a grouped bar chart of a wide crosstab: one group of
// bars per row category, one coloured series per column category. Values are
// expected to be column percentages but any non-negative values plot.
func BarChartSVG(w tabulate.Wide, opt ChartOptions) []byte {
	width := opt.Width
	if width <= 0 {
		width = 720
	}
	height := opt.Height
	if height <= 0 {
		height = 420
	}
	palette := opt.Palette
	if len(palette) == 0 {
		palette = []string{"#1f6f8b"}
	}

	maxVal := 0.0
	for _, r := range w.Rows {
		for _, v := range r.Values {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	plotW := float64(width - chartMarginLeft - chartMarginRight)
	plotH := float64(height - chartMarginTop - chartMarginBottom)
	nGroups := len(w.Rows)
	nSeries := len(w.ColCats)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", width, height)
	if opt.Title != "" {
		fmt.Fprintf(&b, `<text x="%d" y="24" font-family="sans-serif" font-size="16">%s</text>`+"\n",
			chartMarginLeft, escapeXML(opt.Title))
	}

	// y axis with 5 gridlines
	for tick := 0; tick <= 5; tick++ {
		val := maxVal * float64(tick) / 5
		y := float64(chartMarginTop) + plotH - plotH*float64(tick)/5
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#dddddd"/>`+"\n",
			chartMarginLeft, y, width-chartMarginRight, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-family="sans-serif" font-size="11" text-anchor="end">%.0f</text>`+"\n",
			chartMarginLeft-6, y+4, val)
	}

	if nGroups > 0 && nSeries > 0 {
		groupW := plotW / float64(nGroups)
		barW := groupW * 0.8 / float64(nSeries)
		for gi, row := range w.Rows {
			gx := float64(chartMarginLeft) + groupW*float64(gi) + groupW*0.1
			for si, v := range row.Values {
				if v < 0 {
					v = 0
				}
				h := plotH * v / maxVal
				x := gx + barW*float64(si)
				y := float64(chartMarginTop) + plotH - h
				fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
					x, y, barW, h, palette[si%len(palette)])
			}
			fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-family="sans-serif" font-size="12" text-anchor="middle">%s</text>`+"\n",
				gx+groupW*0.4, height-chartMarginBottom+18, escapeXML(row.RowCat))
		}
	}

	// legend, one swatch per series
	lx := chartMarginLeft
	ly := height - chartMarginBottom + 30
	for si, cat := range w.ColCats {
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`+"\n",
			lx, ly, palette[si%len(palette)])
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="12">%s</text>`+"\n",
			lx+16, ly+10, escapeXML(cat))
		lx += 16 + 8*len(cat) + 24
		if lx > width-chartMarginRight-80 {
			lx = chartMarginLeft
			ly += legendRowHeight
		}
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
