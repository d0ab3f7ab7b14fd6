// Package connectors holds the incremental sources lexora indexes. Each
// source implements driven.IncrementalSource for one domain.SourceKind and
// decides what its cursor timestamp means.
package connectors
