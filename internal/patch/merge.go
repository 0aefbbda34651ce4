package patch

import (
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/pbi-visuals/templates/internal/models"
)

// operation is one RFC 6902 patch operation.
type operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Merge returns a copy of template in which every preserved key that is
// present and non-null in current carries current's value. Each key is
// replaced wholesale; template values for keys current lacks are kept.
func Merge(template, current models.VisualConfig, preserved []string) (models.VisualConfig, error) {
	base := template.Clone()
	if base == nil {
		base = models.VisualConfig{}
	}

	ops := make([]operation, 0, len(preserved))
	for _, key := range preserved {
		v, ok := current[key]
		if !ok || v == nil {
			continue
		}
		ops = append(ops, operation{Op: "add", Path: "/" + pointerEscaper.Replace(key), Value: v})
	}
	if len(ops) == 0 {
		return base, nil
	}

	doc, err := models.EncodeCompact(base)
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	patchJSON, err := models.EncodeCompact(ops)
	if err != nil {
		return nil, fmt.Errorf("encoding preserved fields: %w", err)
	}

	p, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	merged, err := p.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("applying preserved fields: %w", err)
	}

	return models.DecodeVisualConfig(string(merged))
}
