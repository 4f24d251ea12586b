package model

import "time"

const (
	MinStage   = 1
	MaxStage   = 4
	MaxPercent = 100.0
)

type CheckpointSource string

const (
	CheckpointPreview CheckpointSource = "preview"
	CheckpointFinal   CheckpointSource = "final"
)

// Checkpoint is a floor: applying it can only raise a run's stage and percent.
type Checkpoint struct {
	Source     CheckpointSource `json:"source"`
	MinStage   int              `json:"min_stage"`
	MinPercent float64          `json:"min_percent"`
}

var (
	PreviewCheckpoint = Checkpoint{Source: CheckpointPreview, MinStage: 2, MinPercent: 40}
	FinalCheckpoint   = Checkpoint{Source: CheckpointFinal, MinStage: MaxStage, MinPercent: MaxPercent}
)

type GenerationRun struct {
	ID                       string    `json:"run_id"`
	Token                    uint64    `json:"-"`
	URL                      string    `json:"url"`
	Language                 string    `json:"language"`
	StartedAt                time.Time `json:"started_at"`
	FinishedAt               time.Time `json:"finished_at,omitempty"`
	Stage                    int       `json:"stage"`
	Percent                  float64   `json:"percent"`
	PreviewCheckpointApplied bool      `json:"preview_checkpoint_applied"`
	FinalCheckpointApplied   bool      `json:"final_checkpoint_applied"`
	Status                   RunStatus `json:"status"`
	Error                    string    `json:"error,omitempty"`
	Preview                  *Preview  `json:"preview,omitempty"`
}

// Raise moves stage and percent up to the given values, never down.
// It reports whether anything changed.
func (r *GenerationRun) Raise(stage int, percent float64) bool {
	changed := false
	stage = clampStage(stage)
	percent = clampPercent(percent)
	if stage > r.Stage {
		r.Stage = stage
		changed = true
	}
	if percent > r.Percent {
		r.Percent = percent
		changed = true
	}
	return changed
}

// Apply raises the run to the checkpoint floor and records its source.
// Re-applying the same or a lower checkpoint is a no-op.
func (r *GenerationRun) Apply(cp Checkpoint) bool {
	changed := r.Raise(cp.MinStage, cp.MinPercent)
	switch cp.Source {
	case CheckpointPreview:
		if !r.PreviewCheckpointApplied {
			r.PreviewCheckpointApplied = true
			changed = true
		}
	case CheckpointFinal:
		if !r.FinalCheckpointApplied {
			r.FinalCheckpointApplied = true
			changed = true
		}
	}
	return changed
}

// Reset puts progress back at the start so the next attempt begins clean.
func (r *GenerationRun) Reset() {
	r.Stage = MinStage
	r.Percent = 0
}

func clampStage(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > MaxPercent {
		return MaxPercent
	}
	return p
}
