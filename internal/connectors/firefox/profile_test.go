package firefox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
)

func mkProfile(t *testing.T, root, name string, withPlaces bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if withPlaces {
		require.NoError(t, os.WriteFile(filepath.Join(dir, PlacesFile), []byte("x"), 0o600))
	}
	return dir
}

func TestFindProfile(t *testing.T) {
	t.Run("prefers default profile", func(t *testing.T) {
		root := t.TempDir()
		mkProfile(t, root, "aaaa.work", true)
		want := mkProfile(t, root, "bbbb.default-release", true)

		got, ok := FindProfile(root)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("skips default profile without places", func(t *testing.T) {
		root := t.TempDir()
		mkProfile(t, root, "aaaa.default", false)
		want := mkProfile(t, root, "cccc.work", true)

		got, ok := FindProfile(root)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("none", func(t *testing.T) {
		root := t.TempDir()
		mkProfile(t, root, "aaaa.default", false)

		_, ok := FindProfile(root)
		assert.False(t, ok)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, ok := FindProfile(filepath.Join(t.TempDir(), "nope"))
		assert.False(t, ok)
	})
}

func TestResolveProfile(t *testing.T) {
	root := t.TempDir()
	profile := mkProfile(t, root, "p.default", true)

	t.Run("directory", func(t *testing.T) {
		got, err := ResolveProfile(profile)
		require.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("places file", func(t *testing.T) {
		got, err := ResolveProfile(filepath.Join(profile, PlacesFile))
		require.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ResolveProfile(filepath.Join(root, "missing"))
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}
