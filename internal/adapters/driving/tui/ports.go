// Package tui provides an interactive terminal user interface for lexora.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Pipeline serves searches and questions.
	Pipeline driving.Pipeline

	// Reindex syncs sources on ctrl+r. Optional.
	Reindex driving.ReindexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
