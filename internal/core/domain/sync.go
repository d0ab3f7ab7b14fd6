package domain

import "time"

// SourceKind identifies a family of incremental sources sharing one cursor.
type SourceKind string

// Known source kinds.
const (
	// SourceKindNotes is a local directory of plain-text notes.
	SourceKindNotes SourceKind = "notes"

	// SourceKindBookmarks is the Firefox bookmark database.
	SourceKindBookmarks SourceKind = "bookmarks"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindNotes, SourceKindBookmarks:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// AllSourceKinds returns every known source kind.
func AllSourceKinds() []SourceKind {
	return []SourceKind{SourceKindNotes, SourceKindBookmarks}
}

// SyncState is the persisted high-water mark for one source kind.
// Items with a timestamp strictly greater than LastSyncTimestamp are new.
// The unit of the timestamp is defined by the source (nanoseconds for
// note mtimes, microseconds for Firefox bookmark dates).
type SyncState struct {
	// Kind is the source kind this cursor belongs to.
	Kind SourceKind `json:"kind" yaml:"kind"`

	// LastSyncTimestamp is the cursor value.
	LastSyncTimestamp int64 `json:"last_sync_timestamp" yaml:"last_sync_timestamp"`

	// UpdatedAt is when the cursor was last written.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
