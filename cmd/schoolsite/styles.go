package main

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#16a34a")
	errorColor   = lipgloss.Color("#dc2626")
	primaryColor = lipgloss.Color("#1d4ed8")
	mutedColor   = lipgloss.Color("#6b7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	fieldStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)
