package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/govlist/internal/proposal"
)

const (
	// detailPadding is the horizontal space taken by the detail box border and padding.
	detailPadding = 4
)

var (
	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	detailBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// View renders the current view.
func (m *BrowseModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return fmt.Sprintf("Error: %v\n", m.err)
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		if p := m.list.SelectedItem(); p != nil {
			return RenderProposalDetail(*p, m.width)
		}
		return "No proposal selected\n"
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m *BrowseModel) renderListView() string {
	body := m.list.View()
	if body == "" {
		body = emptyStyle.Height(m.listHeight()).Render("No proposals match the current search.")
	}

	statusLine := m.renderScrollStatus()
	if m.showFilter {
		statusLine = "Search: " + m.textInput.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		statusLine,
		m.help.View(m.keys),
	)
}

func (m *BrowseModel) renderHeader() string {
	status := "all"
	if m.status != "" {
		status = string(m.status)
	}
	arrow := "↑"
	if m.sortDesc {
		arrow = "↓"
	}

	title := headerStyle.Render("Governance proposals")
	meta := fmt.Sprintf("  %d of %d · status: %s · sort: %s %s",
		len(m.visible), len(m.all), status, m.sortBy.FieldName(), arrow)
	if q := m.textInput.Value(); q != "" {
		meta += fmt.Sprintf(" · search: %q", q)
	}
	return title + mutedStyle.Render(meta)
}

// renderScrollStatus describes which items are on screen and the scroll position.
func (m *BrowseModel) renderScrollStatus() string {
	n := m.list.ItemCount()
	if n == 0 {
		return mutedStyle.Render("0 items")
	}
	rng := m.list.Range()
	first := min(max(rng.FirstVisible, 0), n-1)
	last := min(max(rng.LastVisible, 0), n-1)
	return mutedStyle.Render(fmt.Sprintf("items %d-%d of %d · row %d/%d · rendered %d",
		first+1, last+1, n, m.scrollOffset, m.list.MaxScrollOffset(), rng.Len()))
}

// RenderProposalDetail renders a detailed view of a single proposal.
func RenderProposalDetail(p proposal.Proposal, width int) string {
	end := "not set"
	if !p.EndTime.IsZero() {
		end = p.EndTime.Format("2006-01-02 15:04 MST")
	}

	var sb strings.Builder
	_, _ = sb.WriteString(headerStyle.Render(p.Title) + "\n\n")
	_, _ = sb.WriteString(fmt.Sprintf("ID:           %s\n", p.ID))
	_, _ = sb.WriteString(fmt.Sprintf("Status:       %s\n", p.Status))
	_, _ = sb.WriteString(fmt.Sprintf("Participants: %s\n", proposal.FormatParticipants(p.Participants)))
	_, _ = sb.WriteString(fmt.Sprintf("Ends:         %s\n\n", end))
	_, _ = sb.WriteString(p.Description)

	box := detailBox
	if width > detailPadding {
		box = box.Width(width - detailPadding)
	}
	return box.Render(sb.String()) + "\n" + mutedStyle.Render("[Esc] Back to list  [q] Quit")
}

// RenderProposalCards renders items as stacked cards for static (non-interactive) output.
func RenderProposalCards(items []proposal.Proposal, width int) string {
	render := proposal.Render(width)
	cards := make([]string, 0, len(items))
	for i, p := range items {
		cards = append(cards, render(p, i))
	}
	return strings.Join(cards, "\n\n") + "\n"
}
