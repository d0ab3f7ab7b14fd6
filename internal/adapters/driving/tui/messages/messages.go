// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// SearchCompleted carries retrieved chunks back to the model.
type SearchCompleted struct {
	Query  string
	Chunks []domain.Chunk
	Err    error
}

// AskCompleted carries the ask agent's answer back to the model.
type AskCompleted struct {
	Question string
	Response *domain.AskResponse
	Err      error
}

// ReindexCompleted reports the outcome of a reindex run.
// Result may be set alongside Err when only some sources failed.
type ReindexCompleted struct {
	Result *driving.ReindexResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input with results or an answer.
	ViewSearch ViewType = iota
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
