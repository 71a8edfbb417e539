package popup

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/sleuth/internal/prefs"
	"github.com/Paintersrp/sleuth/internal/search"
)

type palette struct {
	accent  lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	warn    lipgloss.Color
	selectB lipgloss.Color
}

var (
	darkPalette = palette{
		accent:  lipgloss.Color("#D4A574"),
		text:    lipgloss.Color("#E8E2D6"),
		muted:   lipgloss.Color("#8A8275"),
		border:  lipgloss.Color("#3D3830"),
		warn:    lipgloss.Color("#E07A5F"),
		selectB: lipgloss.Color("#2A2620"),
	}
	lightPalette = palette{
		accent:  lipgloss.Color("#8B5A2B"),
		text:    lipgloss.Color("#2B2620"),
		muted:   lipgloss.Color("#7A7265"),
		border:  lipgloss.Color("#D8CFC0"),
		warn:    lipgloss.Color("#B5452F"),
		selectB: lipgloss.Color("#F1E8D8"),
	}
)

type styles struct {
	app        lipgloss.Style
	title      lipgloss.Style
	subtitle   lipgloss.Style
	badge      lipgloss.Style
	input      lipgloss.Style
	dropdown   lipgloss.Style
	dropHeader lipgloss.Style
	dropItem   lipgloss.Style
	dropActive lipgloss.Style
	emptyIcon  lipgloss.Style
	message    lipgloss.Style
	warning    lipgloss.Style
	status     lipgloss.Style
	help       lipgloss.Style
	match      lipgloss.Style
	palette    palette
}

func newStyles(theme string) styles {
	p := darkPalette
	if theme == prefs.Light {
		p = lightPalette
	}

	return styles{
		app: lipgloss.NewStyle().Padding(1, 2),
		title: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
		badge: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		dropdown: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		dropHeader: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),
		dropItem: lipgloss.NewStyle().
			Foreground(p.text),
		dropActive: lipgloss.NewStyle().
			Foreground(p.accent).
			Background(p.selectB).
			Bold(true),
		emptyIcon: lipgloss.NewStyle().
			Padding(1, 0, 0, 0),
		message: lipgloss.NewStyle().
			Foreground(p.text).
			Padding(1, 0),
		warning: lipgloss.NewStyle().
			Foreground(p.warn),
		status: lipgloss.NewStyle().
			Foreground(p.muted),
		help: lipgloss.NewStyle().
			Foreground(p.muted),
		match: lipgloss.NewStyle().
			Foreground(p.warn).
			Bold(true).
			Underline(true),
		palette: p,
	}
}

// resultDelegate draws result rows with the searched text highlighted.
type resultDelegate struct {
	list.DefaultDelegate
	mark func(string) string
}

func (s styles) delegate() resultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(s.palette.text)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(s.palette.muted)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(s.palette.accent).
		BorderForeground(s.palette.accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(s.palette.muted).
		BorderForeground(s.palette.accent)
	return resultDelegate{DefaultDelegate: d, mark: func(t string) string { return s.match.Render(t) }}
}

func (d resultDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if ri, ok := item.(resultItem); ok && ri.query != "" {
		ri.display = d.highlight(ri, index == m.Index())
		item = ri
	}
	d.DefaultDelegate.Render(w, m, index, item)
}

// The unmatched parts carry the row's own color since each match ends with
// a reset.
func (d resultDelegate) highlight(ri resultItem, selected bool) string {
	base := d.Styles.NormalTitle
	if selected {
		base = d.Styles.SelectedTitle
	}
	plain := lipgloss.NewStyle().Foreground(base.GetForeground())
	return search.Highlight(ri.title, ri.query, d.mark, func(t string) string { return plain.Render(t) })
}
