package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░]  45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	if width < 2 {
		width = 2
	}

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 33 {
		style = StyleRed
	} else if pct < 66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}

// RenderSpendBar renders a yearly spend bar scaled against maxSpend: the
// actual share in green followed by the planned share in blue.
func RenderSpendBar(actual, planned, maxSpend, width int) string {
	if maxSpend <= 0 || width <= 0 {
		return ""
	}
	a := actual * width / maxSpend
	p := (actual+planned)*width/maxSpend - a
	p = max(p, 0)
	return StyleGreen.Render(strings.Repeat(filledBlock, a)) + StyleBlue.Render(strings.Repeat(filledBlock, p))
}
