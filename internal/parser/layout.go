package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pbi-visuals/templates/internal/apperr"
	"github.com/pbi-visuals/templates/internal/models"
)

// ParseLayout parses a layout document. There is no fallback at this level:
// the document as a whole must be valid JSON.
func ParseLayout(data []byte) (*models.Layout, error) {
	var layout models.Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

// ParseLayoutFromReader parses a layout document from an io.Reader.
func ParseLayoutFromReader(r io.Reader) (*models.Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseLayout(StripUTF8BOM(data))
}

// ReadReportLayout reads the UTF-8 layout file of an unpacked report folder.
func ReadReportLayout(path string) (*models.Layout, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.NewNotFoundError(apperr.CodeReportNotFound, "report layout not found, ensure this is a valid report folder", path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening report layout: %w", err)
	}
	defer file.Close()

	layout, err := ParseLayoutFromReader(file)
	if err != nil {
		return nil, apperr.NewParseError(apperr.CodeReportUnparsable, "failed to load report layout", path, err)
	}
	return layout, nil
}
