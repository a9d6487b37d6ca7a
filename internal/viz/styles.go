package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles derived from one Theme.
type styles struct {
	title       lipgloss.Style
	heading     lipgloss.Style
	text        lipgloss.Style
	muted       lipgloss.Style
	selected    lipgloss.Style
	running     lipgloss.Style
	stopped     lipgloss.Style
	box         lipgloss.Style
	boxActive   lipgloss.Style
	boxTitle    lipgloss.Style
	code        lipgloss.Style
	sidebar     lipgloss.Style
	progressLow lipgloss.Style
	progressMid lipgloss.Style
	progressHi  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		stopped:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		boxActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
		boxTitle: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		code: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			PaddingLeft(1),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(t.Border).
			PaddingRight(2),
		progressLow: lipgloss.NewStyle().Foreground(t.Error),
		progressMid: lipgloss.NewStyle().Foreground(t.Warning),
		progressHi:  lipgloss.NewStyle().Foreground(t.Success),
	}
}

// ProgressBar renders fraction in [0, 1] as a bar of the given width.
func (s styles) ProgressBar(fraction float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if fraction > 0.8 {
		return s.progressHi.Render(bar)
	} else if fraction > 0.4 {
		return s.progressMid.Render(bar)
	}
	return s.progressLow.Render(bar)
}

// BoxWithTitle renders a titled box. Active boxes get the thick accent border.
func (s styles) BoxWithTitle(title, content string, width int, active bool) string {
	box := s.box
	if active {
		box = s.boxActive
	}
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(s.boxTitle.Render(title) + "\n" + content)
}

// Separator draws a muted rule with a center mark.
func (s styles) Separator(width int) string {
	if width < 8 {
		return s.muted.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.muted.Render(left + " ◆ " + right)
}

// GradientText colors each rune along a linear blend between two hex colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	return parseHexByte(hex[1:3]), parseHexByte(hex[3:5]), parseHexByte(hex[5:7])
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
