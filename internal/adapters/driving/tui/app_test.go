package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/adapters/driving/tui/messages"
	"github.com/cbyc/lexora/internal/core/domain"
)

type stubPipeline struct {
	chunks []domain.Chunk
}

func (s *stubPipeline) AddDocs(context.Context, []domain.Document) error { return nil }

func (s *stubPipeline) SearchDocumentStore(context.Context, string) ([]domain.Chunk, error) {
	return s.chunks, nil
}

func (s *stubPipeline) Defaults() domain.SearchOptions { return domain.DefaultSearchOptions() }

func (s *stubPipeline) Search(context.Context, string, domain.SearchOptions) ([]domain.Chunk, error) {
	return s.chunks, nil
}

func (s *stubPipeline) Ask(context.Context, string) (*domain.AskResponse, error) {
	return &domain.AskResponse{Text: domain.NotFoundText, Sources: []string{}}, nil
}

func (s *stubPipeline) ResetIndex(context.Context) error { return nil }

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingPipeline)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingPipeline)
	assert.NoError(t, (&Ports{Pipeline: &stubPipeline{}}).Validate())
}

func TestNewApp_RequiresPipeline(t *testing.T) {
	app, err := NewApp(&Ports{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPipeline)
	assert.Nil(t, app)
}

func TestApp_InitialState(t *testing.T) {
	app, err := NewApp(&Ports{Pipeline: &stubPipeline{}})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Pipeline: &stubPipeline{}})
	require.NoError(t, err)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a := model.(*App)

	assert.True(t, a.Ready())
	assert.Contains(t, a.View(), "Lexora")
}

func TestApp_HelpView(t *testing.T) {
	app, err := NewApp(&Ports{Pipeline: &stubPipeline{}})
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	model, _ := app.Update(messages.ViewChanged{View: messages.ViewHelp})
	a := model.(*App)
	assert.Equal(t, messages.ViewHelp, a.CurrentView())
	assert.Contains(t, a.View(), "reindex")

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, model.(*App).CurrentView())
}

func TestApp_QuitMessages(t *testing.T) {
	app, err := NewApp(&Ports{Pipeline: &stubPipeline{}})
	require.NoError(t, err)

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_SearchRoundTrip(t *testing.T) {
	p := &stubPipeline{chunks: []domain.Chunk{{Text: "hello", Source: "/notes/a.txt"}}}
	app, err := NewApp(&Ports{Pipeline: p})
	require.NoError(t, err)
	app.WithContext(context.Background()).SetDimensions(100, 30)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	model, _ = model.Update(cmd())

	a := model.(*App)
	assert.Len(t, a.SearchView().Chunks(), 1)
	assert.Contains(t, a.View(), "/notes/a.txt")
}
