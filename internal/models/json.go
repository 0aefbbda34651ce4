package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// EncodeCompact marshals v without HTML escaping and without a trailing newline.
func EncodeCompact(v any) ([]byte, error) {
	return encode(v, "")
}

// EncodeIndent marshals v with the given indent, without HTML escaping, and
// terminates the output with a newline.
func EncodeIndent(v any, indent string) ([]byte, error) {
	b, err := encode(v, indent)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeVisualConfig parses text as a single JSON object, keeping numbers
// as json.Number so ids and coordinates are not rounded.
func DecodeVisualConfig(text string) (VisualConfig, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", jsonKind(v))
	}
	return VisualConfig(obj), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
