// Package exporter writes dormant candidates to Markdown, JSON, CSV or plain text files.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/naka-gawa/github-dormant/internal/domain"
)

// ErrUnsupportedFormat is returned for output paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("output file must be of type Markdown, CSV, JSON or Text")

// Format is the output file format, selected by file extension.
type Format int

const (
	Markdown Format = iota + 1
	JSON
	CSV
	Text
)

var extensions = map[string]Format{
	".md":   Markdown,
	".json": JSON,
	".csv":  CSV,
	".txt":  Text,
}

func (f Format) String() string {
	switch f {
	case Markdown:
		return "markdown"
	case JSON:
		return "json"
	case CSV:
		return "csv"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath selects the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	f, ok := extensions[ext]
	if !ok {
		return 0, fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

type writerFunc func(w io.Writer, records []domain.ExportRecord) error

var writers = map[Format]writerFunc{
	Markdown: writeMarkdown,
	JSON:     writeJSON,
	CSV:      writeCSV,
	Text:     writeText,
}

// Write serializes records to w in the given format, preserving their order.
func Write(w io.Writer, f Format, records []domain.ExportRecord) error {
	write, ok := writers[f]
	if !ok {
		return fmt.Errorf("%w (got %s)", ErrUnsupportedFormat, f)
	}
	return write(w, records)
}

// WriteFile creates or truncates path and writes records to it.
func WriteFile(path string, f Format, records []domain.ExportRecord) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := Write(out, f, records); err != nil {
		return fmt.Errorf("failed to write %s output: %w", f, err)
	}
	return nil
}

func writeMarkdown(w io.Writer, records []domain.ExportRecord) error {
	if _, err := io.WriteString(w, "| User(s) | Created In |\n|---|---|\n"); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "| [%s](https://github.com/%s) | %s |\n", r.User, r.User, r.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, records []domain.ExportRecord) error {
	if records == nil {
		records = []domain.ExportRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

func writeCSV(w io.Writer, records []domain.ExportRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"User(s)", "Created In"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.User, r.CreatedAt}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeText(w io.Writer, records []domain.ExportRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.User); err != nil {
			return err
		}
	}
	return nil
}
