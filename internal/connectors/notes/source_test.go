package notes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

func writeNote(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestSource_Kind(t *testing.T) {
	s := New("/tmp/notes")
	assert.Equal(t, domain.SourceKindNotes, s.Kind())
	assert.Equal(t, "/tmp/notes", s.Dir())
}

func TestSource_Fetch_FirstRun(t *testing.T) {
	dir := t.TempDir()
	base := time.Unix(1_700_000_000, 0)
	b := writeNote(t, dir, "b.txt", "second note", base)
	a := writeNote(t, dir, "a.txt", "first note", base)
	writeNote(t, dir, "ignored.md", "markdown", base)
	writeNote(t, dir, "empty.txt", "  \n", base)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o700))

	s := New(dir)
	scan := time.Unix(1_800_000_000, 0)
	s.now = func() time.Time { return scan }

	res, err := s.Fetch(context.Background(), driven.Cursor{})
	require.NoError(t, err)

	assert.Equal(t, []domain.Document{
		{Content: "first note", Source: a},
		{Content: "second note", Source: b},
	}, res.Documents)
	assert.Equal(t, 3, res.Selected)
	assert.Equal(t, scan.UnixNano(), res.Cursor)
}

func TestSource_Fetch_StrictlyNewer(t *testing.T) {
	dir := t.TempDir()
	cursor := time.Unix(1_700_000_000, 500)
	writeNote(t, dir, "old.txt", "old", cursor.Add(-time.Second))
	writeNote(t, dir, "boundary.txt", "boundary", cursor)
	newer := writeNote(t, dir, "new.txt", "new", cursor.Add(time.Second))

	res, err := New(dir).Fetch(context.Background(), driven.Cursor{Value: cursor.UnixNano(), Valid: true})
	require.NoError(t, err)

	require.Len(t, res.Documents, 1)
	assert.Equal(t, newer, res.Documents[0].Source)
	assert.Equal(t, 1, res.Selected)
}

func TestSource_Fetch_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope")).Fetch(context.Background(), driven.Cursor{})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = New(file).Fetch(context.Background(), driven.Cursor{})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSource_Fetch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "a.txt", "a", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(dir).Fetch(ctx, driven.Cursor{})
	assert.ErrorIs(t, err, context.Canceled)
}
