package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	deckStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	busStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	seatStyles = map[seatmap.State]lipgloss.Style{
		seatmap.StateAvailable:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		seatmap.StateSelected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4")),
		seatmap.StateLadiesOnly:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		seatmap.StateUnavailable: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
	}
)

// seatWidth fits labels like "L12" with padding.
const seatWidth = 5
