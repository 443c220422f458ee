// Package model defines the records persisted as metadata sidecars and
// the in-memory job records
package model

import "time"

type AssetStatus string

const (
	AssetUploaded AssetStatus = "uploaded"
	AssetAnalyzed AssetStatus = "analyzed"
)

// Highlight is a single detected moment produced by the analyzer tool.
// Immutable once written into a sidecar.
type Highlight struct {
	Timestamp   float64  `json:"timestamp"`
	Tags        []string `json:"tags"`
	Confidence  float64  `json:"confidence"`
	StartWindow float64  `json:"startWindow"`
	EndWindow   float64  `json:"endWindow"`
}

// Asset is the metadata sidecar for one stored media file. The sidecar lives
// next to the media file as <id>_metadata.json so that both can be located
// from the id alone, without any separate index.
type Asset struct {
	ID string `json:"id"`

	// Original file name as uploaded. The file itself is stored under
	// <id><ext> so names can never collide between uploads
	Filename string `json:"filename"`
	SavedAs  string `json:"savedAs"`

	Size     int64       `json:"size"`
	MimeType string      `json:"mimetype"`
	Status   AssetStatus `json:"status"`

	// Always serialized as an array, empty until an analysis job completes.
	// Overwritten wholesale by re-analysis, never appended to
	Highlights []Highlight `json:"highlights"`

	UploadedAt time.Time  `json:"uploadedAt"`
	AnalyzedAt *time.Time `json:"analyzedAt,omitempty"`
}
