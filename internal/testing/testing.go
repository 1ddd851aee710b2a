// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
)

// SampleExport builds a two-song export of a public playlist owned by "listener".
func SampleExport() *models.PlaylistExport {
	released := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)
	return &models.PlaylistExport{
		Playlist: &models.Playlist{
			ID:          "playlist-1",
			OwnerID:     "user-1",
			Name:        "Focus",
			Description: "Deep work",
			Public:      true,
		},
		Owner: "listener",
		Entries: []models.PlaylistEntry{
			{
				Song:       &models.Song{ID: "song-1", Title: "Song One", ReleaseDate: released, MediaURL: "https://cdn.example.com/1.mp3"},
				ArtistName: "Artist One",
			},
			{
				Song:       &models.Song{ID: "song-2", Title: "Song, Two", ReleaseDate: released.AddDate(0, 1, 0)},
				ArtistName: "Artist Two",
			},
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
