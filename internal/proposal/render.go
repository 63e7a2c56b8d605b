package proposal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CardHeight is the number of terminal rows one rendered proposal occupies.
const CardHeight = 3

const (
	endDateLayout = "2006-01-02"
	ellipsis      = "…"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	statusStyles = map[Status]lipgloss.Style{
		StatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		StatusUpcoming:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

// FormatParticipants renders a participant count with digit grouping.
func FormatParticipants(n int) string {
	p := message.NewPrinter(language.English)
	if n == 1 {
		return p.Sprintf("%d participant", n)
	}
	return p.Sprintf("%d participants", n)
}

// Render returns a render function producing a CardHeight-line card per
// proposal, with each line truncated to width cells. A non-positive width
// disables truncation.
func Render(width int) func(Proposal, int) string {
	return func(p Proposal, _ int) string {
		lines := [CardHeight]string{
			titleStyle.Render(truncate(p.Title, width)),
			descStyle.Render(truncate(p.Description, width)),
			truncate(metaLine(p), width),
		}
		return strings.Join(lines[:], "\n")
	}
}

// PlainRow renders p as a single unstyled line for non-interactive output.
func PlainRow(p Proposal) string {
	end := "-"
	if !p.EndTime.IsZero() {
		end = p.EndTime.Format(endDateLayout)
	}
	return strings.Join([]string{p.ID, string(p.Status), FormatParticipants(p.Participants), end, p.Title}, "\t")
}

func metaLine(p Proposal) string {
	style, ok := statusStyles[p.Status]
	if !ok {
		style = metaStyle
	}
	parts := []string{style.Render("[" + string(p.Status) + "]"), metaStyle.Render(FormatParticipants(p.Participants))}
	if !p.EndTime.IsZero() {
		parts = append(parts, metaStyle.Render("ends "+p.EndTime.Format(endDateLayout)))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, ellipsis)
}
