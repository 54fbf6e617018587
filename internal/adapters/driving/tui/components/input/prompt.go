// Package input provides text input components for the TUI.
package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/styles"
)

// Prompt is a one-line numeric prompt shown over a list, e.g. for a party
// size or a stock delta. It stays hidden until Ask.
type Prompt struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	active    bool
}

// NewPrompt creates a hidden prompt.
func NewPrompt(s *styles.Styles) *Prompt {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 12
	ti.Width = 12

	return &Prompt{
		textinput: ti,
		styles:    s,
	}
}

// Ask shows the prompt with label and an optional prefilled value.
func (p *Prompt) Ask(label, value string) tea.Cmd {
	p.label = label
	p.active = true
	p.textinput.Reset()
	p.textinput.SetValue(value)
	p.textinput.CursorEnd()
	return p.textinput.Focus()
}

// Dismiss hides the prompt.
func (p *Prompt) Dismiss() {
	p.active = false
	p.textinput.Blur()
}

// Active returns whether the prompt is visible.
func (p *Prompt) Active() bool {
	return p.active
}

// Update forwards key input to the text field.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	if !p.active {
		return nil
	}
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return cmd
}

// View renders the prompt, or nothing while hidden.
func (p *Prompt) View() string {
	if !p.active {
		return ""
	}
	label := p.styles.Subtitle.Render(p.label + " ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the raw text.
func (p *Prompt) Value() string {
	return p.textinput.Value()
}

// Int parses the value as a whole number.
func (p *Prompt) Int() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(p.textinput.Value()))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", p.textinput.Value())
	}
	return n, nil
}

// Float parses the value as a decimal number.
func (p *Prompt) Float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(p.textinput.Value()), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", p.textinput.Value())
	}
	return f, nil
}
