package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/vm"
)

// runBudget bounds a single "r" keypress.
const runBudget = 100_000

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	regStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

type debugState int

const (
	stateStepping debugState = iota
	stateInput
)

type debugModel struct {
	err      error
	machine  *vm.Machine
	filename string
	note     string
	outputs  []int64
	input    textinput.Model
	output   viewport.Model
	window   int
	state    debugState
}

func newDebugModel(filename string, m *vm.Machine) *debugModel {
	ti := textinput.New()
	ti.Placeholder = "integer"
	ti.Prompt = "input: "
	ti.Width = 24

	return &debugModel{
		machine:  m,
		filename: filename,
		input:    ti,
		output:   viewport.New(30, 12),
		window:   12,
		state:    stateStepping,
	}
}

func (m *debugModel) Init() tea.Cmd {
	return nil
}

func (m *debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateInput {
			return m.updateInput(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "s":
			m.collect(m.machine.Step())

		case "r":
			m.collect(m.machine.RunFor(runBudget))

		case "i":
			m.state = stateInput
			m.input.SetValue("")
			return m, m.input.Focus()
		}

	case tea.WindowSizeMsg:
		m.window = max(4, msg.Height-10)
		m.output.Height = m.window
	}

	return m, nil
}

func (m *debugModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = stateStepping
		m.input.Blur()
		return m, nil

	case "enter":
		v, err := strconv.ParseInt(strings.TrimSpace(m.input.Value()), 10, 64)
		if err != nil {
			m.err = errors.InvalidInput(errors.PhaseExecute, fmt.Sprintf("bad input %q", m.input.Value()))
			return m, nil
		}
		m.machine.Input(v)
		m.err = nil
		m.note = ""
		m.state = stateStepping
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// collect records the outcome of a step or run.
func (m *debugModel) collect(st vm.Status, err error) {
	m.err = err
	switch st {
	case vm.StatusBlocked:
		m.note = "waiting for input, press i"
	case vm.StatusHalted:
		m.note = fmt.Sprintf("halted after %d steps", m.machine.Steps())
	case vm.StatusRunning:
		m.note = fmt.Sprintf("paused at ip %d", m.machine.IP())
	default:
		m.note = ""
	}
	out := m.machine.Outputs()
	if len(out) == 0 {
		return
	}
	m.outputs = append(m.outputs, out...)

	lines := make([]string, len(m.outputs))
	for i, v := range m.outputs {
		lines[i] = strconv.FormatInt(v, 10)
	}
	m.output.SetContent(strings.Join(lines, "\n"))
	m.output.GotoBottom()
}

func (m *debugModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Intcode Debugger"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	left := paneStyle.Render(m.listing())
	right := lipgloss.JoinVertical(lipgloss.Left,
		paneStyle.Render(m.registers()),
		paneStyle.Render(outputStyle.Render(m.output.View())),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.note != "" {
		b.WriteString(noteStyle.Render(m.note))
		b.WriteString("\n")
	}

	if m.state == stateInput {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter queue • esc back"))
	} else {
		b.WriteString(helpStyle.Render("s step • r run • i input • q quit"))
	}
	return b.String()
}

// listing disassembles a window of memory starting at the instruction
// pointer.
func (m *debugModel) listing() string {
	cells := m.machine.Memory().Snapshot()
	ip := m.machine.IP()

	var b strings.Builder
	addr := ip
	for i := 0; i < m.window; i++ {
		line := vm.DisassembleAt(cells, addr)
		text := fmt.Sprintf("%04d  %s", line.Addr, line.Text)
		switch {
		case line.Addr == ip:
			b.WriteString(currentStyle.Render("> " + text))
		case line.Valid:
			b.WriteString("  " + opStyle.Render(text))
		default:
			b.WriteString("  " + text)
		}
		b.WriteString("\n")
		if addr >= int64(len(cells)) {
			break
		}
		addr += int64(len(line.Cells))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *debugModel) registers() string {
	rows := []string{
		fmt.Sprintf("status  %s", m.machine.Status()),
		fmt.Sprintf("ip      %d", m.machine.IP()),
		fmt.Sprintf("rb      %d", m.machine.RelativeBase()),
		fmt.Sprintf("steps   %d", m.machine.Steps()),
		fmt.Sprintf("inputs  %d", m.machine.PendingInput()),
		fmt.Sprintf("memory  %d", m.machine.Memory().Len()),
	}
	return regStyle.Render(strings.Join(rows, "\n"))
}

func (a *app) debugCmd() *cobra.Command {
	var inputs string

	cmd := &cobra.Command{
		Use:   "debug FILE",
		Short: "Step through a program in an interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.InvalidInput(errors.PhaseExecute, "debug needs a terminal")
			}

			src, err := readProgram(args[0])
			if err != nil {
				return err
			}
			m, err := vm.Load(src, a.machineOptions()...)
			if err != nil {
				return err
			}
			values, err := parseInputs(inputs)
			if err != nil {
				return err
			}
			m.Input(values...)

			p := tea.NewProgram(newDebugModel(args[0], m), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&inputs, "input", "i", "", "comma-separated values queued before start")
	return cmd
}
