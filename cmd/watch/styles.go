package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatProfit renders a profit percentage with a direction indicator.
func FormatProfit(pct optional.Option[float64]) string {
	if pct.IsNone() {
		return "-"
	}

	value := pct.Unwrap()
	formatted := fmt.Sprintf("%.2f%%", value)

	if value > 0 {
		return formatted + " ▲"
	} else if value < 0 {
		return formatted + " ▼"
	}

	return formatted
}
