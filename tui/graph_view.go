package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/solocrm/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CONTACT NETWORK"))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("Nothing to draw yet.\n")
	} else {
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.graphDOT = ""
	}

	return m, nil
}

func (m *Model) generateGraph() {
	dot, err := viz.NewGraphGenerator().GenerateContactGraph(m.ctx, m.session.State())
	if err != nil {
		m.graphDOT = "Error: " + err.Error()
		return
	}
	m.graphDOT = string(dot)
}
