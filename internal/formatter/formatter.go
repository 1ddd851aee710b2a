// package formatter renders playlist exports as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied name (or file extension) onto a [Format].
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "", "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", shared.Validation(fmt.Sprintf("unsupported export format %q", name))
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Extension is the file suffix used by [WriteExport].
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	}
	return string(f)
}

// Export renders export in format f.
func Export(export *models.PlaylistExport, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	}
	return nil, shared.Validation(fmt.Sprintf("unsupported export format %q", f))
}

// ExportToCSV converts a PlaylistExport to CSV with columns: Position, ID, Title, Artist, Released, Media URL
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Released", "Media URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, entry := range export.Entries {
		record := []string{
			strconv.Itoa(i + 1),
			entry.Song.ID,
			entry.Song.Title,
			entry.ArtistName,
			releaseDate(entry.Song),
			entry.Song.MediaURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to a Markdown document
func ExportToMarkdown(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Playlist.Name)

	if export.Playlist.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", export.Playlist.Description)
	}

	fmt.Fprintf(&buf, "**Owner**: %s\n", export.Owner)
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(export.Entries))
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", shared.VisibilityString(export.Playlist.Public))

	buf.WriteString("## Songs\n\n")
	for i, entry := range export.Entries {
		fmt.Fprintf(&buf, "%d. %s - %s (%s)\n", i+1, entry.ArtistName, entry.Song.Title, releaseDate(entry.Song))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Owner: %s\n", export.Owner)
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(export.Entries))

	for i, entry := range export.Entries {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, entry.ArtistName, entry.Song.Title)
	}

	return buf.Bytes(), nil
}

type jsonEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"release_date"`
	MediaURL    string `json:"media_url,omitempty"`
}

type jsonExport struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Owner       string      `json:"owner"`
	Public      bool        `json:"public"`
	Songs       []jsonEntry `json:"songs"`
}

// ExportToJSON renders the playlist metadata together with its songs.
func ExportToJSON(export *models.PlaylistExport) ([]byte, error) {
	out := jsonExport{
		ID:          export.Playlist.ID,
		Name:        export.Playlist.Name,
		Description: export.Playlist.Description,
		Owner:       export.Owner,
		Public:      export.Playlist.Public,
		Songs:       make([]jsonEntry, 0, len(export.Entries)),
	}
	for _, entry := range export.Entries {
		out.Songs = append(out.Songs, jsonEntry{
			ID:          entry.Song.ID,
			Title:       entry.Song.Title,
			Artist:      entry.ArtistName,
			ReleaseDate: releaseDate(entry.Song),
			MediaURL:    entry.Song.MediaURL,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders export in format f and writes it to path.
//
// Defaults to {playlist.ID}.{ext} as the filename.
func WriteExport(export *models.PlaylistExport, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.%s", export.Playlist.ID, f.Extension())
	}

	data, err := Export(export, f)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", f, err)
	}

	return path, nil
}

func releaseDate(s *models.Song) string {
	return s.ReleaseDate.UTC().Format("2006-01-02")
}
