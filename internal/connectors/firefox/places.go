package firefox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Bookmark is one bookmarked URL.
type Bookmark struct {
	URL   string
	Title string

	// DateAdded is in microseconds since the Unix epoch.
	DateAdded int64
}

const bookmarksQuery = `
	SELECT p.url, COALESCE(b.title, ''), b.dateAdded
	FROM moz_bookmarks b
	JOIN moz_places p ON b.fk = p.id
	WHERE b.type = 1
	  AND p.url NOT LIKE 'place:%'
	  AND p.url NOT LIKE 'about:%'`

// ReadBookmarks returns the bookmarks of a profile added strictly after since,
// oldest first. The database is copied first because a running Firefox keeps
// it locked.
func ReadBookmarks(ctx context.Context, profileDir string, since driven.Cursor) ([]Bookmark, error) {
	src := filepath.Join(profileDir, PlacesFile)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", src, domain.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("stat places database: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "lexora-places-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dst := filepath.Join(tmpDir, PlacesFile)
	if err := copyFile(src, dst); err != nil {
		return nil, fmt.Errorf("copy places database: %w", err)
	}
	// Recent bookmarks may still live in the write-ahead log.
	if err := copyFile(src+"-wal", dst+"-wal"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("copy places wal: %w", err)
	}

	db, err := sql.Open("sqlite", dst)
	if err != nil {
		return nil, fmt.Errorf("open places database: %w", err)
	}
	defer db.Close()

	query := bookmarksQuery
	var args []any
	if since.Valid {
		query += " AND b.dateAdded > ?"
		args = append(args, since.Value)
	}
	query += " ORDER BY b.dateAdded"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.URL, &b.Title, &b.DateAdded); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		if b.Title == "" {
			b.Title = b.URL
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}
	return bookmarks, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
