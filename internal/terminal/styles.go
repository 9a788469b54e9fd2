package terminal

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the terminal surface
type Styles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Body      lipgloss.Style
	Bold      lipgloss.Style
	Link      lipgloss.Style
	Typing    lipgloss.Style
	Active    lipgloss.Style
	Muted     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		User: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}).
			Bold(true),
		Assistant: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#67E8F9"}).
			Bold(true),
		Body: lipgloss.NewStyle().PaddingLeft(2),
		Bold: lipgloss.NewStyle().Bold(true),
		Link: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#818CF8"}).
			Underline(true),
		Typing: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
