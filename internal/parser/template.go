package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/pbi-visuals/templates/internal/apperr"
	"github.com/pbi-visuals/templates/internal/models"
)

// LoadTemplate reads a standalone visual config file.
func LoadTemplate(path string) (models.VisualConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.NewNotFoundError(apperr.CodeTemplateNotFound, "template file not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	v, err := models.DecodeVisualConfig(string(StripUTF8BOM(data)))
	if err != nil {
		return nil, apperr.NewParseError(apperr.CodeTemplateUnparsable, "failed to load template JSON", path, err)
	}
	return v, nil
}
