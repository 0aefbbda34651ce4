package models

import "time"

// FileInfo represents metadata about a written file.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	WrittenAt time.Time `json:"writtenAt"`
}
