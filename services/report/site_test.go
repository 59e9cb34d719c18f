package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keyraces-backend/races"

	"github.com/stretchr/testify/require"
)

func TestWriteSite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 24, 12, 30, 0, 0, time.UTC)

	err := WriteSite([]races.Outcome{scrapedOutcome()}, nil, now, SiteOptions{
		OutDir:    dir,
		WriteText: true,
		WriteHTML: true,
		WriteJSON: true,
	})
	require.NoError(t, err)

	base := "report-2026-08-24_123000Z"
	for _, name := range []string{base + ".txt", base + ".html", base + ".json", "index.html", "style.css"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(index), base+".html")

	serialized, err := os.ReadFile(filepath.Join(dir, base+".json"))
	require.NoError(t, err)
	require.Contains(t, string(serialized), `"race_id": "ca-senate-2024"`)
}

func TestWriteSiteIndexNewestFirst(t *testing.T) {
	dir := t.TempDir()
	opts := SiteOptions{OutDir: dir, WriteHTML: true}

	err := WriteSite(nil, nil, time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC), opts)
	require.NoError(t, err)
	err = WriteSite(nil, nil, time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC), opts)
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	newer := strings.Index(string(index), "report-2026-08-24_090000Z.html")
	older := strings.Index(string(index), "report-2026-08-17_090000Z.html")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	require.Less(t, newer, older)
}

func TestWriteSitePreservesStyle(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("body{background:black}")
	err := os.WriteFile(filepath.Join(dir, "style.css"), custom, 0644)
	require.NoError(t, err)

	err = WriteSite(nil, nil, time.Now(), SiteOptions{OutDir: dir, WriteText: true})
	require.NoError(t, err)

	style, err := os.ReadFile(filepath.Join(dir, "style.css"))
	require.NoError(t, err)
	require.Equal(t, custom, style)
}

func TestWriteSiteEmptyDirIndex(t *testing.T) {
	dir := t.TempDir()
	err := WriteSite(nil, nil, time.Now(), SiteOptions{OutDir: dir, WriteText: true})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(index), "No reports yet")
}
