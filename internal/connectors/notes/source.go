// Package notes indexes a directory of plain-text notes.
package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.IncrementalSource = (*Source)(nil)

// Extension is the suffix of note files.
const Extension = ".txt"

// Source reads *.txt files directly inside a directory. Its cursor is a
// UnixNano timestamp: files modified after the previous scan started are new.
type Source struct {
	dir string
	now func() time.Time
}

// New creates a notes source for dir.
func New(dir string) *Source {
	return &Source{dir: dir, now: time.Now}
}

// Kind returns domain.SourceKindNotes.
func (s *Source) Kind() domain.SourceKind {
	return domain.SourceKindNotes
}

// Dir returns the scanned directory.
func (s *Source) Dir() string {
	return s.dir
}

// Fetch returns the notes whose modification time is strictly greater than
// since. The next cursor is the time the scan started, so a note saved while
// the scan runs is picked up again next time.
func (s *Source) Fetch(ctx context.Context, since driven.Cursor) (*driven.FetchResult, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("notes directory %s: %w", s.dir, domain.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("stat notes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes path %s is not a directory: %w", s.dir, domain.ErrSourceUnavailable)
	}

	scanStart := s.now().UnixNano()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read notes directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	res := &driven.FetchResult{Cursor: scanStart}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			logger.Warn("skipping unreadable note", "name", entry.Name(), "error", err)
			continue
		}
		if since.Valid && fi.ModTime().UnixNano() <= since.Value {
			continue
		}
		res.Selected++

		path := filepath.Join(s.dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable note", "path", path, "error", err)
			continue
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		res.Documents = append(res.Documents, domain.Document{Content: string(content), Source: path})
	}

	logger.Debug("notes scanned", "dir", s.dir, "selected", res.Selected, "documents", len(res.Documents))
	return res, nil
}
