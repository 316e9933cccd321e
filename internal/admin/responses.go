package admin

import "time"

// SnapshotResponse summarizes a saved or restored sentinel snapshot.
type SnapshotResponse struct {
	Sentinel string    `json:"sentinel"`
	TakenAt  time.Time `json:"taken_at"`
	Level    string    `json:"level"`
	Score    float64   `json:"score"`
	Signals  int       `json:"recent_signals"`
}

// RestoreResponse reports whether a stored snapshot was applied.
type RestoreResponse struct {
	Sentinel string `json:"sentinel"`
	Restored bool   `json:"restored"`
}

// HealthResponse lists each dependency's status. Status is "ok" only when
// every check passed.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	LastSave *time.Time        `json:"last_snapshot,omitempty"`
}
