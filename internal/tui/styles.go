package tui

import "github.com/charmbracelet/lipgloss"

const AppName = "HELPDESK REQUEST"

var (
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#43BF6D")
	WarningColor   = lipgloss.Color("#FFA500")
	ErrorColor     = lipgloss.Color("#FF0000")
	SubtleColor    = lipgloss.Color("#626262")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(16)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)
