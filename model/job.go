package model

import "time"

type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobComplete   JobStatus = "complete"
	JobFailed     JobStatus = "failed"
)

// Job tracks one asynchronous analysis run. Jobs live only in memory and are
// dropped on restart. A job transitions exactly once from processing to either
// complete or failed and never leaves a terminal state.
type Job struct {
	ID      string    `json:"jobId"`
	AssetID string    `json:"assetId"`
	Status  JobStatus `json:"status"`

	// Best-effort, monotonically non-decreasing while processing. Not tied
	// to real subprocess progress
	Progress int `json:"progress"`

	// Always an array on the wire, never null. Populated when the job
	// completes; an analysis that found nothing leaves it empty
	Highlights []Highlight `json:"highlights"`
	// Set iff Status == JobFailed
	Error string `json:"error,omitempty"`

	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
}
