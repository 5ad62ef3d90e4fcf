package output

import "github.com/charmbracelet/lipgloss"

// Colors from the ANSI 256-color palette.
const (
	ColorPrimary = lipgloss.Color("39")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorInfo    = lipgloss.Color("44")
	ColorMuted   = lipgloss.Color("245")
)

var (
	// TitleStyle is used for the command banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// MutedStyle is used for notes and secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is used for passing checks and completed actions.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle is used for failing checks.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// InfoStyle is used for skipped steps and dry-run notices.
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// SizeStyle is used for byte counts in step summaries.
	SizeStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// palette maps each kind of line to a render function. The plain palette
// leaves text untouched.
type palette struct {
	title   func(string) string
	muted   func(string) string
	success func(string) string
	warning func(string) string
	info    func(string) string
	size    func(string) string
}

func identity(s string) string { return s }

var plainPalette = palette{
	title:   identity,
	muted:   identity,
	success: identity,
	warning: identity,
	info:    identity,
	size:    identity,
}

var prettyPalette = palette{
	title:   renderWith(TitleStyle),
	muted:   renderWith(MutedStyle),
	success: renderWith(SuccessStyle),
	warning: renderWith(WarningStyle),
	info:    renderWith(InfoStyle),
	size:    renderWith(SizeStyle),
}

func renderWith(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}
