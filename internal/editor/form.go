package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goopsie/sl2tools/pkg/character"
	"github.com/goopsie/sl2tools/pkg/wstr"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Width(36)
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Form edits a record in a full-screen terminal form.
type Form struct {
	In  io.Reader
	Out io.Writer
}

// Edit runs the form until the last field is submitted or the user quits.
func (f Form) Edit(slot int, current character.Stats) (character.Stats, error) {
	var opts []tea.ProgramOption
	if f.In != nil {
		opts = append(opts, tea.WithInput(f.In))
	}
	if f.Out != nil {
		opts = append(opts, tea.WithOutput(f.Out))
	}

	final, err := tea.NewProgram(newFormModel(slot, current), opts...).Run()
	if err != nil {
		return current, fmt.Errorf("run form: %w", err)
	}

	m := final.(formModel)
	if !m.done {
		return current, ErrAborted
	}
	return m.result, nil
}

type formModel struct {
	slot    int
	current character.Stats
	inputs  []textinput.Model
	focus   int

	err    string
	done   bool
	result character.Stats
}

func newFormModel(slot int, current character.Stats) formModel {
	m := formModel{
		slot:    slot,
		current: current,
		inputs:  make([]textinput.Model, len(Fields)),
	}
	for i, f := range Fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.Get(&current)
		ti.SetValue(f.Get(&current))
		ti.CharLimit = 32
		ti.Width = 24
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			cmd := m.move(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.move(-1)
			return m, cmd
		case "enter":
			if m.focus < len(m.inputs)-1 {
				cmd := m.move(1)
				return m, cmd
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// move shifts focus by delta, wrapping at either end.
func (m *formModel) move(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m formModel) submit() (tea.Model, tea.Cmd) {
	values := make([]string, len(m.inputs))
	for i := range m.inputs {
		values[i] = m.inputs[i].Value()
	}

	next, err := Apply(m.current, values)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.result = next
	m.done = true
	return m, tea.Quit
}

func (m formModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Slot %d: %s", m.slot, m.current.Name)))
	b.WriteString("\n\n")

	for i, f := range Fields {
		label := labelStyle.Render(f.Label)
		if i == m.focus {
			label = focusStyle.Render(labelStyle.Render(f.Label))
		}
		b.WriteString(label)
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if n := wstr.Units(m.inputs[0].Value()); n > character.NameUnits {
		b.WriteString(warnStyle.Render(fmt.Sprintf("\nname has %d characters, only %d are kept", n, character.NameUnits)))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("\ntab/shift+tab: move  enter: next/save  esc: cancel"))
	b.WriteString("\n")
	return b.String()
}
