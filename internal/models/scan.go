package models

// Scan target kinds.
const (
	ScanKindURL  = "url"
	ScanKindFile = "file"
)

// EngineResult is one reputation engine's verdict for a target.
type EngineResult struct {
	Category string `json:"category"`
	Result   string `json:"result"`
}

// ScanRecord is one persisted scan outcome. History is append-only:
// rescanning the same target inserts a new record, it never overwrites.
type ScanRecord struct {
	ID         string                  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Target     string                  `gorm:"index" json:"target"`
	Kind       string                  `json:"kind"`
	Owner      string                  `gorm:"index" json:"owner"`
	AnalysisID string                  `json:"analysis_id"`
	Status     string                  `json:"status"`
	Stats      map[string]int          `gorm:"serializer:json" json:"stats,omitempty"`
	Results    map[string]EngineResult `gorm:"serializer:json" json:"results,omitempty"`
	CreatedAt  int64                   `gorm:"autoCreateTime" json:"created_at"`
}

// MaliciousCount returns the number of engines that flagged the target.
// Zero for records without completed statistics.
func (r *ScanRecord) MaliciousCount() int {
	if r.Stats == nil {
		return 0
	}
	return r.Stats["malicious"]
}
