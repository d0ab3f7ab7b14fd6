// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cbyc/lexora/internal/adapters/driving/tui/styles"
	"github.com/cbyc/lexora/internal/core/domain"
)

// ResultList displays retrieved chunks in a navigable list.
type ResultList struct {
	chunks   []domain.Chunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.chunks) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.chunks)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.chunks))), "")

	// Each chunk renders as two lines plus a separator.
	visible := (r.height - 4) / 3
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.chunks) {
		end = len(r.chunks)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderChunk(i, &r.chunks[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderChunk(index int, c *domain.Chunk) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxSource := r.width - 20
	if maxSource < 10 {
		maxSource = 10
	}
	source := Truncate(fmt.Sprintf("%s #%d", c.Source, c.ChunkIndex), maxSource)
	score := fmt.Sprintf("%.3f", c.Score)

	var head string
	if index == r.selected {
		head = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxSource, source, score))
	} else {
		head = r.styles.Source.Render(fmt.Sprintf("%s%-*s  ", indicator, maxSource, source)) +
			r.styles.Muted.Render(score)
	}

	maxPreview := r.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	preview := strings.Join(strings.Fields(c.Text), " ")
	preview = Truncate(preview, maxPreview)

	return head + "\n" + r.styles.Normal.Render("    "+preview)
}

// Truncate shortens s to at most n runes, ending with "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetChunks replaces the list contents and resets the selection.
func (r *ResultList) SetChunks(chunks []domain.Chunk) {
	r.chunks = chunks
	r.selected = 0
}

// Chunks returns the current chunks.
func (r *ResultList) Chunks() []domain.Chunk {
	return r.chunks
}

// Selected returns the index of the selected chunk.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.chunks) {
		r.selected = index
	}
}

// SelectedChunk returns the selected chunk, or nil if the list is empty.
func (r *ResultList) SelectedChunk() *domain.Chunk {
	if r.selected < 0 || r.selected >= len(r.chunks) {
		return nil
	}
	return &r.chunks[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.chunks)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of chunks.
func (r *ResultList) Count() int {
	return len(r.chunks)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.chunks) == 0
}
