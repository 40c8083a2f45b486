package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewRun creates a pending run for the named pipeline.
func NewRun(pipelineName, source string) *Run {
	return &Run{
		ID:       uuid.NewString(),
		Pipeline: pipelineName,
		Source:   source,
		Status:   StatusPending,
	}
}

// Start marks the run as processing.
func (r *Run) Start() {
	r.Status = StatusProcessing
	r.StartedAt = time.Now()
}

// Record stores the row counts of a stage and logs them.
func (r *Run) Record(stage Stage, before, after int) {
	r.Stages = append(r.Stages, StageCount{Stage: stage, Before: before, After: after})

	log.Info().
		Str("run_id", r.ID).
		Str("stage", string(stage)).
		Int("before", before).
		Int("after", after).
		Msgf("[%s] stage finished", r.Pipeline)
}

// Halt ends the run early because stage produced no rows.
func (r *Run) Halt(stage Stage) {
	r.HaltedAt = stage
	r.finish(StatusHalted)

	log.Info().
		Str("run_id", r.ID).
		Str("stage", string(stage)).
		Msgf("[%s] no materials left, halting", r.Pipeline)
}

// Complete marks the run as completed.
func (r *Run) Complete() {
	r.finish(StatusCompleted)
}

// Fail marks the run as failed with err.
func (r *Run) Fail(err error) {
	r.ErrorMessage = err.Error()
	r.finish(StatusFailed)
}

// Count returns the recorded counts of stage.
func (r *Run) Count(stage Stage) (StageCount, bool) {
	for _, sc := range r.Stages {
		if sc.Stage == stage {
			return sc, true
		}
	}
	return StageCount{}, false
}

func (r *Run) finish(status RunStatus) {
	r.Status = status
	now := time.Now()
	r.CompletedAt = &now
}
