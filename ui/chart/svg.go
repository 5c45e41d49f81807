package chart

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"
)

// SVG layout, in pixels.
const (
	svgWidth     = 1000
	marginLeft   = 110
	marginRight  = 30
	marginTop    = 60
	marginBottom = 70
	barHeight    = 18
	barGap       = 6
	legendHeight = 22
	gridTicks    = 8
)

// RenderSVG writes a standalone SVG document.
func RenderSVG(w io.Writer, c Chart) error {
	plotWidth := float64(svgWidth - marginLeft - marginRight)
	rows := len(c.Bars)
	if rows == 0 {
		rows = 1
	}
	plotHeight := rows * (barHeight + barGap)
	height := marginTop + plotHeight + marginBottom + len(c.Legend)*legendHeight

	span := c.Max - c.Min
	x := func(v float64) float64 {
		return marginLeft + (v-c.Min)/span*plotWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		svgWidth, height, svgWidth, height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")
	fmt.Fprintf(&b, `<text x="%d" y="32" font-size="20" text-anchor="middle">%s</text>`+"\n", svgWidth/2, html.EscapeString(Title))

	// dashed x grid with tick labels
	for i := 0; i <= gridTicks; i++ {
		v := c.Min + span*float64(i)/gridTicks
		gx := x(v)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#999999" stroke-opacity="0.5" stroke-dasharray="4 3"/>`+"\n",
			gx, marginTop, gx, marginTop+plotHeight)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11" text-anchor="middle">%s</text>`+"\n",
			gx, marginTop+plotHeight+16, tickLabel(v))
	}

	for i, bar := range c.Bars {
		y := marginTop + i*(barHeight+barGap)
		x0, x1 := x(0), x(bar.Difference)
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s"><title>%s: %+.3f (%s)</title></rect>`+"\n",
			x0, y, x1-x0, barHeight, bar.Color,
			html.EscapeString(bar.GroupID.String()), bar.Difference, html.EscapeString(bar.Verdict.Label()))
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" text-anchor="end">%s</text>`+"\n",
			marginLeft-8, y+barHeight-4, html.EscapeString(bar.GroupID.String()))
	}

	fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#000000" stroke-width="1"/>`+"\n",
		x(0), marginTop-4, x(0), marginTop+plotHeight)

	fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="14" text-anchor="middle">%s</text>`+"\n",
		marginLeft+plotWidth/2, marginTop+plotHeight+40, html.EscapeString(XLabel))
	fmt.Fprintf(&b, `<text x="18" y="%d" font-size="14" text-anchor="middle" transform="rotate(-90 18 %d)">%s</text>`+"\n",
		marginTop+plotHeight/2, marginTop+plotHeight/2, html.EscapeString(YLabel))

	legendTop := marginTop + plotHeight + marginBottom
	for i, entry := range c.Legend {
		y := legendTop + i*legendHeight
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="14" height="14" fill="%s"/>`+"\n", marginLeft, y, entry.Color)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12">%s</text>`+"\n", marginLeft+22, y+12, html.EscapeString(entry.Verdict.Label()))
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func tickLabel(v float64) string {
	if math.Abs(v) < 1e-9 {
		return "0"
	}
	return fmt.Sprintf("%.1f", v)
}
