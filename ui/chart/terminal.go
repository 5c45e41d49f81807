package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderTerminal draws the chart as horizontal block bars. width is the
// number of cells used for the bar area.
func RenderTerminal(w io.Writer, c Chart, width int) error {
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n\n")

	if len(c.Bars) == 0 {
		b.WriteString("no groups with both approaches to plot\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	labelWidth := len(YLabel)
	for _, bar := range c.Bars {
		if n := len(bar.GroupID.String()); n > labelWidth {
			labelWidth = n
		}
	}

	span := c.Max - c.Min
	zero := int(math.Round(-c.Min / span * float64(width)))

	fmt.Fprintf(&b, "%-*s\n", labelWidth, YLabel)
	for _, bar := range c.Bars {
		cells := int(math.Round(math.Abs(bar.Difference) / span * float64(width)))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Color))

		var line string
		if bar.Difference < 0 {
			line = strings.Repeat(" ", max(zero-cells, 0)) + style.Render(strings.Repeat("█", cells)) + axisStyle.Render("│")
		} else {
			line = strings.Repeat(" ", zero) + axisStyle.Render("│") + style.Render(strings.Repeat("█", cells))
		}
		fmt.Fprintf(&b, "%*s %s %+.2f\n", labelWidth, bar.GroupID, line, bar.Difference)
	}

	fmt.Fprintf(&b, "%*s %s\n", labelWidth, "", axisStyle.Render(axisLine(width, zero)))
	fmt.Fprintf(&b, "%*s %-*s%s\n", labelWidth, "", width/2, fmt.Sprintf("%.2f", c.Min), fmt.Sprintf("%*.2f", width-width/2, c.Max))
	fmt.Fprintf(&b, "%*s %s\n\n", labelWidth, "", XLabel)

	for _, entry := range c.Legend {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Color)).Render("■")
		fmt.Fprintf(&b, "%s %s\n", swatch, entry.Verdict)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func axisLine(width, zero int) string {
	runes := []rune(strings.Repeat("─", width+1))
	if zero >= 0 && zero < len(runes) {
		runes[zero] = '┼'
	}
	return string(runes)
}
