package status

import (
	"errors"
	"io"

	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	draw   func(styles) string
	styles styles
	output string
}

func newModel(draw func(styles) string) model {
	return model{
		draw:   draw,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.draw(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the account list with quota bars.
func Render(entries []domain.AccountWithUsage, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderView(entries, opts, s) })
}

func RenderDashboard(d application.Dashboard) (string, error) {
	return run(func(s styles) string { return renderDashboard(d, s) })
}

func RenderEvents(title string, page domain.UsageEventPage) (string, error) {
	return run(func(s styles) string { return renderEvents(title, page, s) })
}

func run(draw func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(draw),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
