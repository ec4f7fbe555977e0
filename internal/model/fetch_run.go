package model

import "time"

// Fetch outcomes stored with each run. Failure outcomes match client.FailureKind.
const (
	OutcomeSuccess = "success"
)

// FetchRun is one recorded attempt to fetch the users list.
// SnapshotKey is empty when the payload was not archived.
type FetchRun struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  int64     `json:"duration_ms"`
	Outcome     string    `json:"outcome"`
	StatusCode  int       `json:"status_code"`
	UserCount   int       `json:"user_count"`
	SnapshotKey string    `json:"snapshot_key"`
}
