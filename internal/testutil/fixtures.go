// fixtures.go - Report layout, archive and template builders for tests
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/unicode"
)

// LayoutEntry is where report archives keep their layout document.
const LayoutEntry = "Report/Layout"

// Config encodes a visual config the way report layouts store it: as a JSON
// string.
func Config(t *testing.T, cfg map[string]any) string {
	t.Helper()
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	return string(b)
}

// Container builds a visual container with a raw config string and optional
// extra members.
func Container(config string, extra map[string]any) map[string]any {
	c := map[string]any{"config": config}
	for k, v := range extra {
		c[k] = v
	}
	return c
}

// Section builds a page.
func Section(name, displayName string, containers ...map[string]any) map[string]any {
	list := make([]any, 0, len(containers))
	for _, c := range containers {
		list = append(list, c)
	}
	return map[string]any{
		"name":             name,
		"displayName":      displayName,
		"visualContainers": list,
	}
}

// Layout builds a layout document from sections.
func Layout(t *testing.T, sections ...map[string]any) []byte {
	t.Helper()
	list := make([]any, 0, len(sections))
	for _, s := range sections {
		list = append(list, s)
	}
	b, err := json.Marshal(map[string]any{"id": 0, "sections": list})
	if err != nil {
		t.Fatalf("Failed to marshal layout: %v", err)
	}
	return b
}

// UTF16 encodes text as little-endian UTF-16, with or without a byte-order mark.
func UTF16(t *testing.T, text []byte, bom bool) []byte {
	t.Helper()
	policy := unicode.IgnoreBOM
	if bom {
		policy = unicode.UseBOM
	}
	out, err := unicode.UTF16(unicode.LittleEndian, policy).NewEncoder().Bytes(text)
	if err != nil {
		t.Fatalf("Failed to encode UTF-16: %v", err)
	}
	return out
}

// WriteArchive writes a ZIP archive with the given entries and returns its path.
func WriteArchive(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for entryName, data := range entries {
		w, err := zw.Create(entryName)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", entryName, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("Failed to write entry %s: %v", entryName, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}
	return path
}

// WriteReportArchive writes a report archive whose layout entry holds layout
// encoded as UTF-16 with a byte-order mark.
func WriteReportArchive(t *testing.T, dir, name string, layout []byte) string {
	t.Helper()
	entries := make(map[string][]byte)
	entries[LayoutEntry] = UTF16(t, layout, true)
	entries["Version"] = UTF16(t, []byte("1.28"), false)
	entries["Report/StaticResources/SharedResources/BaseThemes/CY24SU06.json"] = []byte(`{"name":"CY24SU06"}`)
	return WriteArchive(t, dir, name, entries)
}

// WriteReportFolder creates <dir>/<name>/report.json and returns the folder.
func WriteReportFolder(t *testing.T, dir, name string, layout []byte) string {
	t.Helper()
	folder := filepath.Join(dir, name)
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatalf("Failed to create report folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(folder, "report.json"), layout, 0644); err != nil {
		t.Fatalf("Failed to write report.json: %v", err)
	}
	return folder
}

// WriteJSONFile writes v as indented JSON and returns the path.
func WriteJSONFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		t.Fatalf("Failed to marshal %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// ReadJSON decodes the JSON file at path into a generic value.
func ReadJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return ReadJSONBytes(t, data)
}

// ReadJSONBytes decodes a JSON document into a generic value.
func ReadJSONBytes(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	return v
}

// Containers returns the visual containers of section i in a decoded layout.
func Containers(t *testing.T, layout map[string]any, i int) []map[string]any {
	t.Helper()
	sections, ok := layout["sections"].([]any)
	if !ok || i >= len(sections) {
		t.Fatalf("layout has no section %d", i)
	}
	raw, _ := sections[i].(map[string]any)["visualContainers"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, c := range raw {
		out = append(out, c.(map[string]any))
	}
	return out
}

// DecodeConfig parses a container's config string.
func DecodeConfig(t *testing.T, container map[string]any) map[string]any {
	t.Helper()
	s, ok := container["config"].(string)
	if !ok {
		t.Fatalf("container config is %T, want string", container["config"])
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("container config is not JSON: %v", err)
	}
	return v
}
