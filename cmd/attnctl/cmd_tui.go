package main

import (
	"fmt"
	"strings"
	"time"

	"attnrouter/internal/attnstate"
	"attnrouter/internal/router"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const tickInterval = 1500 * time.Millisecond

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Watch the current HOT/WARM/COLD partition turn over turn",
	Long: `tui is presentation only: it contains no routing logic of its own and
reads the persisted AttentionState the same way any other host would. It
re-reads the state file on a timer so it reflects whatever another
attnctl invocation (or a host process) wrote most recently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newDashboard(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

type tickMsg struct{}

type dashboardModel struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	ready    bool
	router   *router.Router
}

func newDashboard() dashboardModel {
	return dashboardModel{router: router.New(cfg.Router.ToAttentionConfig())}
}

func (m dashboardModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-4),
			)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.viewport.SetContent(m.render())
		return m, nil
	case tickMsg:
		if m.ready {
			m.viewport.SetContent(m.render())
		}
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "loading attention state..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("attnctl dashboard — press q to quit")
	return header + "\n\n" + m.viewport.View()
}

func (m dashboardModel) render() string {
	state := attnstate.Load(statePath())
	hot, warm, cold := m.router.BuildContextOutput(state)

	var sb strings.Builder
	sb.WriteString("## HOT\n")
	for _, f := range hot {
		sb.WriteString(fmt.Sprintf("- **%s** (score=%.2f)\n", f, state.Scores[f]))
	}
	sb.WriteString("\n## WARM\n")
	for _, f := range warm {
		sb.WriteString(fmt.Sprintf("- %s (score=%.2f)\n", f, state.Scores[f]))
	}
	sb.WriteString(fmt.Sprintf("\n## COLD\n%d files collapsed\n", len(cold)))

	if m.renderer == nil {
		return sb.String()
	}
	rendered, err := m.renderer.Render(sb.String())
	if err != nil {
		return sb.String()
	}
	return rendered
}
