package patch

import (
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/pbi-visuals/templates/internal/models"
)

// Diff describes the change from before to after as RFC 6902 operations,
// one JSON-encoded operation per entry.
func Diff(before, after models.VisualConfig) ([]string, error) {
	src, err := models.EncodeCompact(before)
	if err != nil {
		return nil, err
	}
	dst, err := models.EncodeCompact(after)
	if err != nil {
		return nil, err
	}

	ops, err := jsondiff.CompareJSON(src, dst)
	if err != nil {
		return nil, fmt.Errorf("comparing configs: %w", err)
	}

	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		b, err := models.EncodeCompact(op)
		if err != nil {
			return nil, err
		}
		lines = append(lines, string(b))
	}
	return lines, nil
}
