package model

import "testing"

func TestGenerationRunApplyIsMonotonic(t *testing.T) {
	run := GenerationRun{Stage: 3, Percent: 75}

	run.Apply(PreviewCheckpoint)
	if run.Stage != 3 || run.Percent != 75 {
		t.Fatalf("preview checkpoint lowered progress: stage=%d percent=%v", run.Stage, run.Percent)
	}
	if !run.PreviewCheckpointApplied {
		t.Fatalf("expected preview checkpoint to be recorded")
	}
	if run.Apply(PreviewCheckpoint) {
		t.Fatalf("re-applying the same checkpoint should be a no-op")
	}

	run.Apply(FinalCheckpoint)
	if run.Stage != MaxStage || run.Percent != MaxPercent {
		t.Fatalf("final checkpoint mismatch: stage=%d percent=%v", run.Stage, run.Percent)
	}
}

func TestGenerationRunRaiseClamps(t *testing.T) {
	run := GenerationRun{Stage: MinStage}
	run.Raise(9, 140)
	if run.Stage != MaxStage || run.Percent != MaxPercent {
		t.Fatalf("raise did not clamp: stage=%d percent=%v", run.Stage, run.Percent)
	}
	run.Reset()
	if run.Stage != MinStage || run.Percent != 0 {
		t.Fatalf("reset mismatch: stage=%d percent=%v", run.Stage, run.Percent)
	}
}
