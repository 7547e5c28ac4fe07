package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarn    = lipgloss.Color("#F59E0B")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginTop(1)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted).Width(22)
	valueStyle    = lipgloss.NewStyle().Bold(true)
	pendingStyle  = lipgloss.NewStyle().Foreground(colorWarn)
)
