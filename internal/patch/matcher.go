package patch

import (
	"strings"

	"github.com/pbi-visuals/templates/internal/models"
)

// Matches reports whether a visual is selected by match: match is a
// case-insensitive substring of the title or equals the visual type ignoring
// case.
func Matches(visual models.VisualConfig, match string) bool {
	m := strings.ToLower(match)
	title := strings.ToLower(visual.Title(""))
	return strings.Contains(title, m) || strings.ToLower(visual.VisualType()) == m
}
