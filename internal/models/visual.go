package models

// DefaultVisualType is reported for configs without a visualType member.
const DefaultVisualType = "unknown_type"

// VisualConfig is the decoded config object of one visual.
type VisualConfig map[string]any

// VisualType returns the visualType member, or DefaultVisualType when it is
// absent or not a string.
func (v VisualConfig) VisualType() string {
	if s, ok := v["visualType"].(string); ok {
		return s
	}
	return DefaultVisualType
}

// Title returns title.text, or def when the title object or its text is
// missing or has the wrong type.
func (v VisualConfig) Title(def string) string {
	title, ok := v["title"].(map[string]any)
	if !ok {
		return def
	}
	text, ok := title["text"].(string)
	if !ok {
		return def
	}
	return text
}

// Clone returns a deep copy of v.
func (v VisualConfig) Clone() VisualConfig {
	if v == nil {
		return nil
	}
	return VisualConfig(cloneValue(map[string]any(v)).(map[string]any))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
