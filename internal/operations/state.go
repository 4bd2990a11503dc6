package operations

import (
	"sync"
	"time"

	"tabprep/internal/dataprep"
	"tabprep/pkg/tabular"
)

// OperationStatusValue represents the overall operation status
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState is the complete state of one pipeline run over a
// single dataset. The dataset itself is owned by exactly one running
// operation; the surrounding bookkeeping is safe for concurrent reads.
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Source    string
	Status    OperationStatusValue
	StartTime time.Time
	EndTime   *time.Time

	// Dataset is the working dataset the steps drive
	Dataset *dataprep.Dataset

	steps     map[string]*StepState
	stepOrder []string

	summary   *tabular.Summary
	artifacts []string

	err error
}

// NewOperationState creates a pending operation state around a dataset
func NewOperationState(id string, dataset *dataprep.Dataset) *OperationState {
	source := ""
	if dataset != nil {
		source = dataset.Source()
	}
	return &OperationState{
		ID:        id,
		Source:    source,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Dataset:   dataset,
		steps:     make(map[string]*StepState),
	}
}

// Start marks the operation as running
func (o *OperationState) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Status = OperationStatusRunning
	o.StartTime = time.Now()
}

// Complete marks the operation as completed
func (o *OperationState) Complete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (o *OperationState) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusFailed
	o.err = err
}

// Cancel marks the operation as cancelled
func (o *OperationState) Cancel(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCancelled
	o.err = err
}

// CurrentStatus returns the operation status
func (o *OperationState) CurrentStatus() OperationStatusValue {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Status
}

// Err returns the error the operation failed with, nil otherwise
func (o *OperationState) Err() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

// AddStep registers a step state, keeping registration order
func (o *OperationState) AddStep(state *StepState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.steps[state.ID]; !exists {
		o.stepOrder = append(o.stepOrder, state.ID)
	}
	o.steps[state.ID] = state
}

// Step returns the state of a registered step, nil when unknown
func (o *OperationState) Step(id string) *StepState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.steps[id]
}

// Steps returns the step states in registration order
func (o *OperationState) Steps() []*StepState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ordered := make([]*StepState, 0, len(o.stepOrder))
	for _, id := range o.stepOrder {
		ordered = append(ordered, o.steps[id])
	}
	return ordered
}

// SetSummary stores the summary produced during the run
func (o *OperationState) SetSummary(summary tabular.Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary = &summary
}

// Summary returns the stored summary and whether one was produced
func (o *OperationState) Summary() (tabular.Summary, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.summary == nil {
		return tabular.Summary{}, false
	}
	return *o.summary, true
}

// AddArtifact records the path of a file the run wrote
func (o *OperationState) AddArtifact(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.artifacts = append(o.artifacts, path)
}

// Artifacts returns the paths written during the run
func (o *OperationState) Artifacts() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]string(nil), o.artifacts...)
}

// Duration returns how long the operation has been, or was, running
func (o *OperationState) Duration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.EndTime != nil {
		return o.EndTime.Sub(o.StartTime)
	}
	return time.Since(o.StartTime)
}

// HasFailures reports whether any step failed
func (o *OperationState) HasFailures() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, step := range o.steps {
		if step.CurrentStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// StepSnapshot is the serializable record of one step run
type StepSnapshot struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Status          StepStatus     `json:"status"`
	DurationSeconds float64        `json:"duration_seconds"`
	Message         string         `json:"message,omitempty"`
	Error           string         `json:"error,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// OperationSnapshot is the serializable record of one operation run,
// written as the per-file run report
type OperationSnapshot struct {
	ID              string               `json:"id"`
	Source          string               `json:"source"`
	Status          OperationStatusValue `json:"status"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         *time.Time           `json:"end_time,omitempty"`
	DurationSeconds float64              `json:"duration_seconds"`
	Steps           []StepSnapshot       `json:"steps"`
	Artifacts       []string             `json:"artifacts,omitempty"`
	Error           string               `json:"error,omitempty"`
}

// Snapshot copies the operation state into its serializable form
func (o *OperationState) Snapshot() OperationSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := OperationSnapshot{
		ID:        o.ID,
		Source:    o.Source,
		Status:    o.Status,
		StartTime: o.StartTime,
		Steps:     make([]StepSnapshot, 0, len(o.stepOrder)),
		Artifacts: append([]string(nil), o.artifacts...),
	}
	if o.EndTime != nil {
		end := *o.EndTime
		snap.EndTime = &end
		snap.DurationSeconds = end.Sub(o.StartTime).Seconds()
	}
	if o.err != nil {
		snap.Error = o.err.Error()
	}
	for _, id := range o.stepOrder {
		snap.Steps = append(snap.Steps, o.steps[id].snapshot())
	}
	return snap
}
