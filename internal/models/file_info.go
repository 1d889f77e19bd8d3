package models

import "time"

// FileInfo represents metadata about a file assigned to a data slot.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Sheet      string    `json:"sheet"` // worksheet the records were taken from
	UploadedAt time.Time `json:"uploadedAt"`
}
