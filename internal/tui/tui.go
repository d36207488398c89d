// Package tui is the interactive review screen for the reply queue:
// navigate pending replies, approve or reject each, quit any time.
// Decisions are applied to the queue immediately, not on exit.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"capturekit/internal/core"
	"capturekit/internal/queue"
)

// decision is the reviewed state shown next to an item this session.
type decision string

const (
	decisionNone     decision = ""
	decisionApproved decision = "approved"
	decisionRejected decision = "rejected"
	decisionFailed   decision = "failed"
)

type model struct {
	queue       *queue.Service
	items       []core.QueueItem
	decisions   map[string]decision
	selectedIdx int
	width       int
	height      int
	quitting    bool
	err         error
}

// InitialModel builds the review model over the current pending items.
func InitialModel(q *queue.Service) (model, error) {
	items, err := q.Pending()
	if err != nil {
		return model{}, fmt.Errorf("failed to load pending replies: %w", err)
	}
	return model{
		queue:     q,
		items:     items,
		decisions: map[string]decision{},
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model accordingly.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.items)-1 {
				m.selectedIdx++
			}
		case "a":
			m.decide(decisionApproved)
		case "r":
			m.decide(decisionRejected)
		}
	}

	return m, nil
}

// decide applies the review decision to the selected item and advances the
// cursor. A store failure is recorded against the item instead of aborting
// the session.
func (m *model) decide(d decision) {
	if m.selectedIdx >= len(m.items) {
		return
	}
	item := m.items[m.selectedIdx]
	if m.decisions[item.ID] != decisionNone {
		return
	}

	var err error
	if d == decisionApproved {
		err = m.queue.Approve(item.ID)
	} else {
		err = m.queue.Reject(item.ID)
	}
	if err != nil {
		m.decisions[item.ID] = decisionFailed
		m.err = err
		return
	}

	m.decisions[item.ID] = d
	if m.selectedIdx < len(m.items)-1 {
		m.selectedIdx++
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	approvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// View renders the TUI.
func (m model) View() string {
	if m.quitting {
		return m.summary()
	}
	if len(m.items) == 0 {
		return titleStyle.Render("Reply Review") + "\n\nNo pending replies.\n\nPress q to quit.\n"
	}

	s := titleStyle.Render("Reply Review") + "\n\n"

	for i, item := range m.items {
		cursor := " "
		line := fmt.Sprintf("[%s] %.0f  %s", item.Strategy, item.Score, firstLine(item.Text, 60))

		switch m.decisions[item.ID] {
		case decisionApproved:
			line = approvedStyle.Render("✓ " + line)
		case decisionRejected:
			line = rejectedStyle.Render("✗ " + line)
		case decisionFailed:
			line = rejectedStyle.Render("! " + line)
		}
		if i == m.selectedIdx {
			cursor = ">"
			line = selectedStyle.Render(line)
		}
		s += fmt.Sprintf("%s %s\n", cursor, line)
	}

	item := m.items[m.selectedIdx]
	detail := item.Text + "\n\n" +
		metaStyle.Render(fmt.Sprintf("platform: %s  strategy: %s  score: %.1f", item.Platform, item.Strategy, item.Score))
	if item.SourceURL != "" {
		detail += metaStyle.Render("\nsource: " + item.SourceURL)
	}
	width := m.width - 4
	if width < 40 {
		width = 40
	}
	s += "\n" + detailStyle.Width(width).Render(detail)

	if m.err != nil {
		s += "\n" + rejectedStyle.Render("error: "+m.err.Error())
	}
	s += helpStyle.Render("\na approve · r reject · j/k move · q quit")
	return s
}

// summary prints the session tally shown on exit.
func (m model) summary() string {
	approved, rejected := 0, 0
	for _, d := range m.decisions {
		switch d {
		case decisionApproved:
			approved++
		case decisionRejected:
			rejected++
		}
	}
	return fmt.Sprintf("Reviewed %d replies: %d approved, %d rejected.\n",
		approved+rejected, approved, rejected)
}

func firstLine(s string, limit int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}

// StartReview runs the review TUI over the pending queue.
func StartReview(q *queue.Service) {
	m, err := InitialModel(q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting review: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running review: %v\n", err)
		os.Exit(1)
	}
}
