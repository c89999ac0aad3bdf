// Package run describes the persisted state of a simulation run: its status
// document and the per-step records written while it advances.
package run

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/spread"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is expected.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

// Parameters are the inputs a run was started with.
type Parameters struct {
	Species         species.Params `json:"species"`
	PixelSizeMeters float64        `json:"pixel_size_m"`
	BioclimVariant  string         `json:"bioclim_variant"`
	JumpPolicy      string         `json:"jump_policy"`
	RandomSeed      int64          `json:"random_seed"`
	Reference       string         `json:"reference"`
}

// Record is the status document of the latest run for a region.
type Record struct {
	RunID      string          `json:"run_id"`
	Region     string          `json:"region"`
	Status     Status          `json:"status"`
	Parameters Parameters      `json:"parameters"`
	Timesteps  []string        `json:"timesteps"`
	Summary    *spread.Summary `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`
	ErrorCode  string          `json:"error_code,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Complete marks r completed at now.
func (r *Record) Complete(sum *spread.Summary, now time.Time) {
	r.Status = StatusCompleted
	r.Summary = sum
	r.UpdatedAt = now
	r.FinishedAt = &now
}

// Fail marks r failed with err at now.  A partial summary is kept.
func (r *Record) Fail(err error, sum *spread.Summary, now time.Time) {
	r.Status = StatusFailed
	r.Summary = sum
	r.Error = err.Error()
	r.ErrorCode = string(errors.GetCode(err))
	r.UpdatedAt = now
	r.FinishedAt = &now
}

// StepRecord is written once per emitted step.
type StepRecord struct {
	Index        int     `json:"index"`
	Occupied     int     `json:"occupied"`
	AreaKm2      float64 `json:"area_km2"`
	TotalDensity float64 `json:"total_density"`
	Patches      int     `json:"patches"`
	JumpsLanded  int     `json:"jumps_landed"`
	JumpsDropped int     `json:"jumps_dropped"`
	OutputID     string  `json:"output_id"`
}

// NewStepRecord summarises st stored under outputID.
func NewStepRecord(st spread.Step, outputID string) StepRecord {
	return StepRecord{
		Index:        st.Index,
		Occupied:     st.Stats.Occupied,
		AreaKm2:      st.Stats.AreaKm2,
		TotalDensity: st.Stats.TotalDensity,
		Patches:      st.Stats.Patches,
		JumpsLanded:  st.JumpsLanded,
		JumpsDropped: st.JumpsDropped,
		OutputID:     outputID,
	}
}

// Repository persists run records keyed by region.  Saving a record replaces
// the region's previous one and its step records.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, region string) (*Record, error)
	AppendStep(ctx context.Context, region string, s StepRecord) error
	Steps(ctx context.Context, region string) ([]StepRecord, error)
}

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
	steps   map[string][]StepRecord
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record), steps: make(map[string][]StepRecord)}
}

// Save stores a copy of r.  A new RunID resets the region's step records.
func (m *MemoryRepository) Save(ctx context.Context, r *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.records[r.Region]; !ok || prev.RunID != r.RunID {
		delete(m.steps, r.Region)
	}
	cp := *r
	cp.Timesteps = append([]string(nil), r.Timesteps...)
	m.records[r.Region] = cp
	return nil
}

// Get returns a copy of the region's record.
func (m *MemoryRepository) Get(ctx context.Context, region string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[region]
	if !ok {
		return nil, errors.NotFound("simulation record not found").WithDetail("region=" + region)
	}
	r.Timesteps = append([]string(nil), r.Timesteps...)
	return &r, nil
}

// AppendStep adds s to the region's step records.
func (m *MemoryRepository) AppendStep(ctx context.Context, region string, s StepRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.steps[region] = append(m.steps[region], s)
	m.mu.Unlock()
	return nil
}

// Steps returns the region's step records ordered by index.
func (m *MemoryRepository) Steps(ctx context.Context, region string) ([]StepRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := append([]StepRecord(nil), m.steps[region]...)
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

//Personal.AI order the ending
