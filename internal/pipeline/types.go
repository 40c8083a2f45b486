package pipeline

import "time"

// Stage identifies one step of an analysis run
type Stage string

const (
	StageSelect    Stage = "select"
	StageNeed      Stage = "replenishment"
	StageRequests  Stage = "pending_requests"
	StageMovements Stage = "movements"
	StageClassify  Stage = "classify"
)

// RunStatus represents the current state of an analysis run
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusHalted     RunStatus = "halted" // a filter stage left no materials
	StatusFailed     RunStatus = "failed"
)

// StageCount records how many rows entered and left a stage
type StageCount struct {
	Stage  Stage `json:"stage"`
	Before int   `json:"before"`
	After  int   `json:"after"`
}

// Run tracks a single analysis over one set of input tables. It is created per
// request and never shared between analyses.
type Run struct {
	ID           string       `json:"id"`
	Pipeline     string       `json:"pipeline"`
	Source       string       `json:"source"`
	Status       RunStatus    `json:"status"`
	Stages       []StageCount `json:"stages"`
	HaltedAt     Stage        `json:"halted_at,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}
