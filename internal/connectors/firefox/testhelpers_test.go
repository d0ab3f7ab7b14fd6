package firefox

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testBookmark struct {
	url       string
	title     string
	dateAdded int64
	typ       int
}

// writePlaces creates a minimal places.sqlite in dir.
func writePlaces(t *testing.T, dir string, bookmarks []testBookmark) {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(dir, PlacesFile))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE moz_places (id INTEGER PRIMARY KEY, url TEXT);
		CREATE TABLE moz_bookmarks (id INTEGER PRIMARY KEY, type INTEGER, fk INTEGER, title TEXT, dateAdded INTEGER);`)
	require.NoError(t, err)

	for i, b := range bookmarks {
		typ := b.typ
		if typ == 0 {
			typ = 1
		}
		_, err = db.Exec(`INSERT INTO moz_places (id, url) VALUES (?, ?)`, i+1, b.url)
		require.NoError(t, err)

		var title any
		if b.title != "" {
			title = b.title
		}
		_, err = db.Exec(`INSERT INTO moz_bookmarks (type, fk, title, dateAdded) VALUES (?, ?, ?, ?)`,
			typ, i+1, title, b.dateAdded)
		require.NoError(t, err)
	}
}
