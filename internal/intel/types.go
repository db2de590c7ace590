// Package intel contains the clients for the external threat-intelligence
// providers and the data model for their responses.
package intel

import (
	"time"

	"threatlens/internal/models"
)

// AnalysisStatus is the provider-defined lifecycle state of an analysis.
type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusInProgress AnalysisStatus = "in-progress"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Terminal reports whether polling must stop on this status.
func (s AnalysisStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// NormalizeStatus maps a raw provider status onto the known set. Unrecognized
// values are reported as in-progress so a new provider state is never
// mistaken for a terminal one.
func NormalizeStatus(raw string) AnalysisStatus {
	switch AnalysisStatus(raw) {
	case StatusQueued, StatusInProgress, StatusCompleted, StatusFailed:
		return AnalysisStatus(raw)
	default:
		return StatusInProgress
	}
}

// AnalysisSnapshot is a point-in-time read of one analysis. Stats and
// Results are nil unless Status is completed. Snapshots are immutable;
// every fetch returns a new value.
type AnalysisSnapshot struct {
	AnalysisID string
	Status     AnalysisStatus
	Stats      map[string]int
	Results    map[string]models.EngineResult

	// RetryAfter is the provider's pacing hint, zero when absent.
	RetryAfter time.Duration
}
