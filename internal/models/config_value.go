package models

import "strings"

// ConfigDecoder turns a container's raw config string into a visual config.
type ConfigDecoder interface {
	DecodeConfig(raw string) (VisualConfig, error)
}

// ConfigValue is a container's config member: a JSON document stored as a
// string. It is decoded on first use and re-encoded only by Replace.
type ConfigValue struct {
	raw      string
	decoded  VisualConfig
	err      error
	done     bool
	modified bool
}

// NewConfigValue wraps a raw config string.
func NewConfigValue(raw string) *ConfigValue {
	return &ConfigValue{raw: raw}
}

// Raw returns the current encoded form.
func (c *ConfigValue) Raw() string {
	return c.raw
}

// IsEmpty reports whether the raw string has no content.
func (c *ConfigValue) IsEmpty() bool {
	return strings.TrimSpace(c.raw) == ""
}

// Decode returns the decoded config. The result, including a failure, is
// cached for the lifetime of the value.
func (c *ConfigValue) Decode(d ConfigDecoder) (VisualConfig, error) {
	if !c.done {
		c.decoded, c.err = d.DecodeConfig(c.raw)
		c.done = true
	}
	return c.decoded, c.err
}

// Replace stores v as the new config and re-encodes it.
func (c *ConfigValue) Replace(v VisualConfig) error {
	raw, err := EncodeCompact(v)
	if err != nil {
		return err
	}
	c.raw = string(raw)
	c.decoded = v
	c.err = nil
	c.done = true
	c.modified = true
	return nil
}

// Modified reports whether Replace has been called.
func (c *ConfigValue) Modified() bool {
	return c.modified
}
