package models

// SkippedVisual records a container whose config could not be decoded.
type SkippedVisual struct {
	PageID string `json:"pageId"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// TemplateFile is one extracted visual config written to disk.
type TemplateFile struct {
	FileInfo
	PageID     string `json:"pageId"`
	VisualType string `json:"visualType"`
	Title      string `json:"title"`
}

// ExtractResult summarizes one extractor run.
type ExtractResult struct {
	ArchivePath string          `json:"archivePath"`
	OutputRoot  string          `json:"outputRoot"`
	Pages       int             `json:"pages"`
	Templates   []*TemplateFile `json:"templates"`
	Skipped     []SkippedVisual `json:"skipped"`
}

// Count returns how many templates were written.
func (r *ExtractResult) Count() int {
	return len(r.Templates)
}

// PatchedVisual describes one container whose config was replaced.
type PatchedVisual struct {
	PageID     string   `json:"pageId"`
	Index      int      `json:"index"`
	VisualType string   `json:"visualType"`
	Title      string   `json:"title"`
	Diff       []string `json:"diff,omitempty"`
}

// PatchResult summarizes one patcher run.
type PatchResult struct {
	ReportPath string          `json:"reportPath"`
	Match      string          `json:"match"`
	Visuals    []PatchedVisual `json:"visuals"`
	Skipped    int             `json:"skipped"`
	Written    bool            `json:"written"`
	DryRun     bool            `json:"dryRun"`
}

// Fixed returns how many containers matched and were patched.
func (r *PatchResult) Fixed() int {
	return len(r.Visuals)
}

// NoMatch reports a successful run in which no container matched.
func (r *PatchResult) NoMatch() bool {
	return len(r.Visuals) == 0
}
