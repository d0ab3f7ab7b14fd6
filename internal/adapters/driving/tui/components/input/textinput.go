// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cbyc/lexora/internal/adapters/driving/tui/styles"
)

// Mode selects what the query box submits to.
type Mode int

const (
	// ModeSearch retrieves matching chunks.
	ModeSearch Mode = iota
	// ModeAsk sends the text to the ask agent as a question.
	ModeAsk
)

// String returns the label shown next to the input.
func (m Mode) String() string {
	if m == ModeAsk {
		return "Ask"
	}
	return "Search"
}

// MaxQueryLength bounds what a user can type.
const MaxQueryLength = 512

// QueryInput wraps a bubbles textinput with a search/ask mode label.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      Mode
	width     int
}

// NewQueryInput creates a focused query input in search mode.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder(ModeSearch)
	ti.Focus()
	ti.CharLimit = MaxQueryLength
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		mode:      ModeSearch,
		width:     50,
	}
}

func placeholder(m Mode) string {
	if m == ModeAsk {
		return "Ask a question about your notes and bookmarks..."
	}
	return "Enter search query..."
}

// Init initialises the input.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the label and the input box.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render(q.mode.String() + ": ")
	box := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library constant
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Mode returns the current mode.
func (q *QueryInput) Mode() Mode {
	return q.mode
}

// SetMode switches mode and updates the placeholder.
func (q *QueryInput) SetMode(m Mode) {
	q.mode = m
	q.textinput.Placeholder = placeholder(m)
}

// ToggleMode flips between search and ask.
func (q *QueryInput) ToggleMode() {
	if q.mode == ModeSearch {
		q.SetMode(ModeAsk)
		return
	}
	q.SetMode(ModeSearch)
}

// Value returns the current input value.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input, leaving room for the label.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
