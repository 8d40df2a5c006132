package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Money renders a whole-unit amount as "$12,345".
func Money(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + groupThousands(strconv.Itoa(amount))
}

// MoneyDecimal renders an exact amount rounded to whole units.
func MoneyDecimal(d decimal.Decimal) string {
	return Money(int(d.Round(0).IntPart()))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// DateOrDash renders a calendar date, or a dimmed "--" when absent.
func DateOrDash(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format(domain.DateLayout)
}

// TextOrDash renders s, or a dimmed "--" when empty.
func TextOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Field renders one "LABEL  value" line of a detail card.
func Field(label, value string) string {
	return StyleDim.Render(label) + "  " + value
}

func formatSize(v float64) string {
	if v == 0 {
		return Dim("--")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
