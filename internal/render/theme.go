package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/psds-microservice/helpdesk-cli/internal/model"
)

// Theme is the palette used for terminal output. ANSI 256 codes only.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Header     lipgloss.Color
	Border     lipgloss.Color

	Success lipgloss.Color
	Failure lipgloss.Color

	// Indexed by Priority.Stars(): unknown, low, medium, high.
	PriorityColors [4]lipgloss.Color

	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color
	StatusRejected   lipgloss.Color

	Requester lipgloss.Color
	Staff     lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Header:     lipgloss.Color("111"),
	Border:     lipgloss.Color("238"),

	Success: lipgloss.Color("114"),
	Failure: lipgloss.Color("203"),

	PriorityColors: [4]lipgloss.Color{"243", "114", "221", "203"},

	StatusPending:    lipgloss.Color("221"),
	StatusInProgress: lipgloss.Color("111"),
	StatusDone:       lipgloss.Color("114"),
	StatusRejected:   lipgloss.Color("203"),

	Requester: lipgloss.Color("252"),
	Staff:     lipgloss.Color("141"),
}

func (t Theme) PriorityColor(p model.Priority) lipgloss.Color {
	return t.PriorityColors[p.Stars()]
}

// StatusColor returns FaintText for statuses outside the known set.
func (t Theme) StatusColor(s model.TicketStatus) lipgloss.Color {
	switch s {
	case model.TicketStatusPending:
		return t.StatusPending
	case model.TicketStatusInProgress:
		return t.StatusInProgress
	case model.TicketStatusSolved, model.TicketStatusClosed:
		return t.StatusDone
	case model.TicketStatusRejected:
		return t.StatusRejected
	}
	return t.FaintText
}
