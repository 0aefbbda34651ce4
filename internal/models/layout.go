// Package models contains domain types for Power BI report layouts.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Default identifiers used when a section omits them.
const (
	DefaultPageName = "Unknown Page"
	DefaultPageID   = "unknown_page"
)

// Fields holds the members of a JSON object as undecoded values so that
// members this package does not model survive a read/write cycle.
type Fields map[string]json.RawMessage

// Layout is the report layout document: an ordered list of sections (pages).
type Layout struct {
	Sections []*Section
	fields   Fields
}

// Section is one report page.
type Section struct {
	DisplayName      string
	Name             string
	VisualContainers []*VisualContainer
	fields           Fields
}

// VisualContainer is one visual on a page. Config is nil when the container
// has no config member.
type VisualContainer struct {
	Config *ConfigValue
	fields Fields
}

func (l *Layout) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	l.fields = fields
	l.Sections = nil
	if raw, ok := fields["sections"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &l.Sections); err != nil {
			return fmt.Errorf("sections: %w", err)
		}
	}
	return nil
}

func (l Layout) MarshalJSON() ([]byte, error) {
	out := l.fields.clone()
	if _, had := l.fields["sections"]; had || l.Sections != nil {
		raw, err := EncodeCompact(l.Sections)
		if err != nil {
			return nil, err
		}
		out["sections"] = raw
	}
	return EncodeCompact(out)
}

// Field returns the undecoded value of a top-level member.
func (l *Layout) Field(name string) (json.RawMessage, bool) {
	raw, ok := l.fields[name]
	return raw, ok
}

func (s *Section) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	s.fields = fields
	s.DisplayName = stringField(fields, "displayName", DefaultPageName)
	s.Name = stringField(fields, "name", DefaultPageID)
	s.VisualContainers = nil
	if raw, ok := fields["visualContainers"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &s.VisualContainers); err != nil {
			return fmt.Errorf("section %s: visualContainers: %w", s.Name, err)
		}
	}
	return nil
}

func (s Section) MarshalJSON() ([]byte, error) {
	out := s.fields.clone()
	if _, had := s.fields["visualContainers"]; had || s.VisualContainers != nil {
		raw, err := EncodeCompact(s.VisualContainers)
		if err != nil {
			return nil, err
		}
		out["visualContainers"] = raw
	}
	return EncodeCompact(out)
}

func (c *VisualContainer) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	c.fields = fields
	c.Config = nil

	raw, ok := fields["config"]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Not a string. Keep the raw text so decoding can still accept an
		// inline object; anything else fails to decode later and is skipped.
		s = string(raw)
	}
	c.Config = NewConfigValue(s)
	return nil
}

func (c VisualContainer) MarshalJSON() ([]byte, error) {
	out := c.fields.clone()
	if c.Config != nil && c.Config.Modified() {
		raw, err := EncodeCompact(c.Config.Raw())
		if err != nil {
			return nil, err
		}
		out["config"] = raw
	}
	return EncodeCompact(out)
}

// Field returns the undecoded value of a container member.
func (c *VisualContainer) Field(name string) (json.RawMessage, bool) {
	raw, ok := c.fields[name]
	return raw, ok
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	return out
}

func decodeObject(data []byte) (Fields, error) {
	if isNull(data) {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func stringField(f Fields, key, def string) string {
	raw, ok := f[key]
	if !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
