package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/pbi-visuals/templates/internal/apperr"
	"github.com/pbi-visuals/templates/internal/models"
)

// Archive is a report archive opened read-only.
type Archive struct {
	path string
	zr   *zip.ReadCloser
}

// OpenArchive opens the report archive at path.
func OpenArchive(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.NewNotFoundError(apperr.CodeFileNotFound, "report archive not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	if info.IsDir() {
		return nil, apperr.NewFormatError(apperr.CodeInvalidArchive, "not a valid report archive", path, errors.New("is a directory"))
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperr.NewFormatError(apperr.CodeInvalidArchive, "not a valid report archive", path, err)
	}

	return &Archive{path: path, zr: zr}, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Path returns the archive path.
func (a *Archive) Path() string {
	return a.path
}

// Entries lists the names of all entries in the archive.
func (a *Archive) Entries() []string {
	names := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// ReadEntry returns the content of the named entry. Entry names written with
// backslash separators match their forward-slash form.
func (a *Archive) ReadEntry(name string) ([]byte, error) {
	for _, f := range a.zr.File {
		if f.Name != name && strings.ReplaceAll(f.Name, `\`, "/") != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, apperr.NewFormatError(apperr.CodeInvalidArchive, "failed to open archive entry "+name, a.path, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, apperr.NewFormatError(apperr.CodeInvalidArchive, "failed to read archive entry "+name, a.path, err)
		}
		return data, nil
	}
	return nil, apperr.NewFormatError(apperr.CodeLayoutMissing, fmt.Sprintf("could not find '%s' inside the archive", name), a.path, nil)
}

// ReadLayout reads, decodes and parses the layout entry.
func (a *Archive) ReadLayout(entry string) (*models.Layout, error) {
	data, err := a.ReadEntry(entry)
	if err != nil {
		return nil, err
	}

	text, err := DecodeLayoutText(data)
	if err != nil {
		return nil, apperr.NewFormatError(apperr.CodeLayoutUndecodable, "failed to decode "+entry, a.path, err)
	}

	layout, err := ParseLayout([]byte(text))
	if err != nil {
		return nil, apperr.NewParseError(apperr.CodeLayoutUnparsable, "failed to decode JSON from "+entry, a.path, err)
	}
	return layout, nil
}
