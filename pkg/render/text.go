package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mchmarny/romenu/pkg/menu"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	linkStyle  = lipgloss.NewStyle()
	keyStyle   = lipgloss.NewStyle().Faint(true)
	groupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// glyphs maps icon hints to terminal glyphs.
var glyphs = map[string]string{
	menu.MainIcon: "☰",
	menu.LinkIcon: "▪",
}

// Text draws the bar as a row of bordered columns, one per group. Each link
// is prefixed by its "group.link" position, the address used to activate it.
type Text struct {
	w io.Writer
}

// NewText returns a renderer writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Render implements menu.Renderer.
func (t *Text) Render(b menu.Bar) {
	if _, err := fmt.Fprintln(t.w, Format(b)); err != nil {
		slog.Error("failed to render bar", "error", err)
	}
}

// Format returns the textual rendition of b.
func Format(b menu.Bar) string {
	columns := make([]string, 0, len(b.Groups))
	for gi, g := range b.Groups {
		var sb strings.Builder
		sb.WriteString(titleStyle.Render(withIcon(g.Icon, g.Title)))
		for li, l := range g.Links {
			sb.WriteString("\n")
			sb.WriteString(keyStyle.Render(fmt.Sprintf("%d.%d", gi, li)))
			sb.WriteString(" ")
			sb.WriteString(linkStyle.Render(withIcon(l.Icon, l.Label)))
		}
		columns = append(columns, groupStyle.Render(sb.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func withIcon(icon, label string) string {
	if g, ok := glyphs[icon]; ok {
		return g + " " + label
	}
	return label
}
