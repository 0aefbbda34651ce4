package parser

import (
	"strings"

	"github.com/pbi-visuals/templates/internal/models"
)

// DirectStrategy parses the config string as JSON.
type DirectStrategy struct{}

func NewDirectStrategy() *DirectStrategy {
	return &DirectStrategy{}
}

func (s *DirectStrategy) Name() string {
	return "direct"
}

func (s *DirectStrategy) Decode(raw string) (models.VisualConfig, error) {
	return models.DecodeVisualConfig(raw)
}

// UnescapeStrategy handles configs that upstream tooling escaped one level
// too many: literal \" and \n sequences are turned back into quotes and
// newlines before parsing.
type UnescapeStrategy struct{}

func NewUnescapeStrategy() *UnescapeStrategy {
	return &UnescapeStrategy{}
}

func (s *UnescapeStrategy) Name() string {
	return "unescaped"
}

func (s *UnescapeStrategy) Decode(raw string) (models.VisualConfig, error) {
	return models.DecodeVisualConfig(Unescape(raw))
}

// Unescape replaces \" with " and then \n with a newline.
func Unescape(raw string) string {
	s := strings.ReplaceAll(raw, `\"`, `"`)
	return strings.ReplaceAll(s, `\n`, "\n")
}
