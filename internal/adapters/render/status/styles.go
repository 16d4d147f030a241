package status

import (
	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	account      lipgloss.Style
	current      lipgloss.Style
	detail       lipgloss.Style
	warning      lipgloss.Style
	section      lipgloss.Style
	empty        lipgloss.Style
	limitKey     lipgloss.Style
	limitMeta    lipgloss.Style
	barBracket   lipgloss.Style
	barEmpty     lipgloss.Style
	barLevels    map[application.UsageLevel]lipgloss.Style
	severities   map[domain.Severity]lipgloss.Style
	tableHeader  lipgloss.Style
	tableCellDim lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		current:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		limitKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		limitMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		barLevels: map[application.UsageLevel]lipgloss.Style{
			application.UsageLevelLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
			application.UsageLevelMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
			application.UsageLevelHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		severities: map[domain.Severity]lipgloss.Style{
			domain.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			domain.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
			domain.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
			domain.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		tableHeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		tableCellDim: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
