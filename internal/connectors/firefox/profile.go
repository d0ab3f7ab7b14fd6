// Package firefox indexes Firefox bookmarks by downloading the bookmarked pages.
package firefox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/cbyc/lexora/internal/core/domain"
)

// PlacesFile is the bookmark database inside a profile directory.
const PlacesFile = "places.sqlite"

// AutoProfile asks ResolveProfile to search the platform's profile directory.
const AutoProfile = "auto"

// ProfilesDir returns the directory holding Firefox profiles on this platform.
func ProfilesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Mozilla", "Firefox", "Profiles"), nil
	default:
		return filepath.Join(home, ".mozilla", "firefox"), nil
	}
}

// FindProfile picks a profile inside profilesDir: a directory named *.default
// or *.default-release that holds places.sqlite, else the first directory
// that holds one, in name order.
func FindProfile(profilesDir string) (string, bool) {
	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return "", false
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var fallback string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(profilesDir, e.Name())
		if !hasPlaces(dir) {
			continue
		}
		if strings.HasSuffix(e.Name(), ".default") || strings.HasSuffix(e.Name(), ".default-release") {
			return dir, true
		}
		if fallback == "" {
			fallback = dir
		}
	}
	return fallback, fallback != ""
}

// ResolveProfile turns a configured profile path into a profile directory.
// Empty or "auto" searches the platform default location; a path to
// places.sqlite resolves to its parent directory.
func ResolveProfile(path string) (string, error) {
	if path == "" || path == AutoProfile {
		profilesDir, err := ProfilesDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		dir, ok := FindProfile(profilesDir)
		if !ok {
			return "", fmt.Errorf("no firefox profile under %s: %w", profilesDir, domain.ErrSourceUnavailable)
		}
		return dir, nil
	}

	if filepath.Base(path) == PlacesFile {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			path = filepath.Dir(path)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("firefox profile %s: %w", path, domain.ErrSourceUnavailable)
		}
		return "", fmt.Errorf("stat firefox profile: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("firefox profile %s is not a directory: %w", path, domain.ErrSourceUnavailable)
	}
	return path, nil
}

func hasPlaces(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, PlacesFile))
	return err == nil && !info.IsDir()
}
