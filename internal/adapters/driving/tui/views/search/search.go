// Package search provides the query view for the TUI.
// One input serves two modes: search lists matching chunks, ask shows a
// grounded answer with its sources.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cbyc/lexora/internal/adapters/driving/tui/components/input"
	"github.com/cbyc/lexora/internal/adapters/driving/tui/components/list"
	"github.com/cbyc/lexora/internal/adapters/driving/tui/components/status"
	"github.com/cbyc/lexora/internal/adapters/driving/tui/keymap"
	"github.com/cbyc/lexora/internal/adapters/driving/tui/messages"
	"github.com/cbyc/lexora/internal/adapters/driving/tui/styles"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// NoAnswerText is shown when the agent could not answer from the indexed context.
const NoAnswerText = "No answer found in your notes or bookmarks."

// View represents the query view with input, results, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	pipeline driving.Pipeline
	reindex  driving.ReindexService
	ctx      context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = browsing results
	query      string
	answer     *domain.AskResponse
}

// NewView creates a new query view. reindex may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	pipeline driving.Pipeline,
	reindex driving.ReindexService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		pipeline:   pipeline,
		reindex:    reindex,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for pipeline calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ReindexCompleted:
		return v, v.handleReindexCompleted(msg)

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if keymap.Matches(k, v.keymap.Reindex) {
		if v.statusbar.State().Busy() {
			return v, nil
		}
		v.statusbar.SetMessage("")
		v.statusbar.SetState(status.StateReindexing)
		return v, v.performReindex()
	}

	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(k, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(k, v.keymap.NewQuery):
		v.input.SetValue("")
		return v, v.focus()
	case keymap.Matches(k, v.keymap.Back):
		return v, v.focus()
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.ToggleMode):
		v.input.ToggleMode()
		return v, nil
	case keymap.Matches(k, v.keymap.Back):
		v.input.Reset()
		return v, nil
	case keymap.Matches(k, v.keymap.Submit):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) submit() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.statusbar.State().Busy() {
		return nil
	}

	v.query = text
	v.statusbar.SetMessage("")
	if v.input.Mode() == input.ModeAsk {
		v.statusbar.SetState(status.StateAsking)
		return v.performAsk(text)
	}
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(text)
}

func (v *View) focus() tea.Cmd {
	v.focusInput = true
	return v.input.Focus()
}

func (v *View) blur() {
	v.focusInput = false
	v.input.Blur()
}

func (v *View) performSearch(query string) tea.Cmd {
	pipeline, ctx := v.pipeline, v.ctx
	return func() tea.Msg {
		if pipeline == nil {
			return messages.ErrorOccurred{Err: ErrNoPipeline}
		}
		chunks, err := pipeline.SearchDocumentStore(ctx, query)
		return messages.SearchCompleted{Query: query, Chunks: chunks, Err: err}
	}
}

func (v *View) performAsk(question string) tea.Cmd {
	pipeline, ctx := v.pipeline, v.ctx
	return func() tea.Msg {
		if pipeline == nil {
			return messages.ErrorOccurred{Err: ErrNoPipeline}
		}
		resp, err := pipeline.Ask(ctx, question)
		return messages.AskCompleted{Question: question, Response: resp, Err: err}
	}
}

func (v *View) performReindex() tea.Cmd {
	reindex, ctx := v.reindex, v.ctx
	return func() tea.Msg {
		if reindex == nil {
			return messages.ErrorOccurred{Err: ErrNoReindexService}
		}
		result, err := reindex.Reindex(ctx)
		return messages.ReindexCompleted{Result: result, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.answer = nil
	v.list.SetChunks(msg.Chunks)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Chunks))
	v.blur()
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.answer = msg.Response
	v.list.SetChunks(nil)
	v.statusbar.SetResultCount(0)
	v.statusbar.SetState(status.StateAnswered)
	v.blur()
}

func (v *View) handleReindexCompleted(msg messages.ReindexCompleted) tea.Cmd {
	if msg.Err != nil {
		v.setError(msg.Err)
	} else {
		v.err = nil
		v.statusbar.SetState(status.StateReady)
	}
	if msg.Result != nil && msg.Err == nil {
		v.statusbar.SetMessage(fmt.Sprintf("Indexed %d notes, %d bookmarks",
			msg.Result.NotesIndexed, msg.Result.BookmarksIndexed))
	}
	return v.focus()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Lexora"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.answer != nil {
		sections = append(sections, v.renderAnswer())
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderAnswer() string {
	width := v.width - 4
	if width < 20 {
		width = 20
	}

	if !v.answer.Found() {
		return v.styles.Muted.Render(NoAnswerText)
	}

	lines := []string{v.styles.Answer.Width(width).Render(v.answer.Text)}
	if len(v.answer.Sources) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Sources"))
		for _, src := range v.answer.Sources {
			lines = append(lines, v.styles.Source.Render("  "+list.Truncate(src, width)))
		}
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Title, input, spacing and status bar take roughly eight lines.
	listHeight := height - 8
	if listHeight < 3 {
		listHeight = 3
	}
	v.list.SetDimensions(width, listHeight)
}

// Reset clears the query, results and answer.
func (v *View) Reset() {
	v.input.Reset()
	v.list.SetChunks(nil)
	v.statusbar.Clear()
	v.err = nil
	v.answer = nil
	v.query = ""
	v.focusInput = true
	v.input.Focus()
}

// Query returns the last submitted query or question.
func (v *View) Query() string {
	return v.query
}

// Chunks returns the chunks from the last search.
func (v *View) Chunks() []domain.Chunk {
	return v.list.Chunks()
}

// SelectedIndex returns the index of the highlighted chunk.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Answer returns the last answer, or nil.
func (v *View) Answer() *domain.AskResponse {
	return v.answer
}

// Mode returns the input mode.
func (v *View) Mode() input.Mode {
	return v.input.Mode()
}

// InputFocused reports whether keystrokes go to the input.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// State returns the status bar state.
func (v *View) State() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
