package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/podopt/internal/optim"
)

const historyCapacity = 600

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	bestStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	feasibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	violatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
)

type iterMsg optim.Iteration

type doneMsg struct{}

// Model streams optimizer iterations into a terminal view: a live objective
// trace plus the current and best points.
type Model struct {
	modelName string
	optName   string
	iters     <-chan optim.Iteration
	cancel    context.CancelFunc

	varNames []string
	last     optim.Iteration
	history  []float64
	seen     int
	done     bool
}

// NewModel prepares the live view. varNames must be positionally aligned
// with Iteration.X; cancel stops the optimizer when the user quits mid-run.
func NewModel(modelName, optName string, varNames []string, iters <-chan optim.Iteration, cancel context.CancelFunc) Model {
	names := make([]string, len(varNames))
	copy(names, varNames)
	return Model{
		modelName: modelName,
		optName:   optName,
		iters:     iters,
		cancel:    cancel,
		varNames:  names,
		history:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForIter()
}

func (m Model) waitForIter() tea.Cmd {
	return func() tea.Msg {
		it, ok := <-m.iters
		if !ok {
			return doneMsg{}
		}
		return iterMsg(it)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			if m.done {
				return m, tea.Quit
			}
			// quit once the optimizer drains
			return m, nil
		}
	case iterMsg:
		m.last = optim.Iteration(msg)
		m.seen++
		m.history = append(m.history, m.last.Best)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		return m, m.waitForIter()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")
	s.WriteString(labelStyle.Render("Optimizer") + valueStyle.Render(m.optName) + "\n")
	s.WriteString(labelStyle.Render("Iteration") + valueStyle.Render(fmt.Sprintf("%d", m.last.N)) + "\n")

	if m.seen > 0 {
		s.WriteString(labelStyle.Render("Objective") + valueStyle.Render(fmt.Sprintf("%.6g", m.last.F)) + "\n")
		s.WriteString(labelStyle.Render("Best") + bestStyle.Render(fmt.Sprintf("%.6g", m.last.Best)) + "\n")
		if m.last.Feasible {
			s.WriteString(labelStyle.Render("Constraints") + feasibleStyle.Render("satisfied") + "\n")
		} else {
			s.WriteString(labelStyle.Render("Constraints") + violatedStyle.Render("violated") + "\n")
		}
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(8), asciigraph.Width(50), asciigraph.Caption("best objective"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.seen > 0 && len(m.last.X) > 0 {
		s.WriteString("\nDESIGN VARIABLES\n")
		for i, name := range m.varNames {
			if i >= len(m.last.X) {
				break
			}
			s.WriteString("  " + labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.6g", m.last.X[i])) + "\n")
		}
	}

	if m.done {
		s.WriteString(helpStyle.Render("\nfinished - press q to exit"))
	} else {
		s.WriteString(helpStyle.Render("\nq: stop and keep best point"))
	}
	return panelStyle.Render(s.String())
}

// Run blocks until the iteration channel closes or the user quits.
func Run(modelName, optName string, varNames []string, iters <-chan optim.Iteration, cancel context.CancelFunc) error {
	p := tea.NewProgram(NewModel(modelName, optName, varNames, iters, cancel))
	_, err := p.Run()
	return err
}
