package render

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorBorder  = lipgloss.Color("#16858E")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A80")
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	link    lipgloss.Style
	expired lipgloss.Style
	success lipgloss.Style
	errText lipgloss.Style
	card    lipgloss.Style
	stale   lipgloss.Style
	okBox   lipgloss.Style
	errBox  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	box := r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		label:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		link:    r.NewStyle().Foreground(colorAccent).Underline(true),
		expired: r.NewStyle().Foreground(colorWarning),
		success: r.NewStyle().Bold(true).Foreground(colorSuccess),
		errText: r.NewStyle().Foreground(colorError),
		card:    box.BorderForeground(colorBorder),
		stale:   box.BorderForeground(colorMuted),
		okBox:   box.BorderForeground(colorSuccess),
		errBox:  box.BorderForeground(colorError),
	}
}
