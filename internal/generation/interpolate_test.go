package generation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterpolatePhaseWindows(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		stage   int
		percent float64
	}{
		{-time.Second, 1, 0},
		{0, 1, 0},
		{7500 * time.Millisecond, 1, 20},
		{15 * time.Second, 2, 40},
		{25 * time.Second, 2, 55},
		{35 * time.Second, 3, 70},
		{42500 * time.Millisecond, 3, 80},
		{50 * time.Second, 4, 90},
	}
	for _, tc := range cases {
		stage, pct := Interpolate(tc.elapsed)
		assert.Equal(t, tc.stage, stage, "elapsed %s", tc.elapsed)
		assert.InDelta(t, tc.percent, pct, 1e-9, "elapsed %s", tc.elapsed)
	}
}

func TestInterpolateIsMonotonicAndNeverCompletes(t *testing.T) {
	prevStage, prevPct := Interpolate(0)
	for elapsed := 100 * time.Millisecond; elapsed <= 10*time.Minute; elapsed += 100 * time.Millisecond {
		stage, pct := Interpolate(elapsed)
		if stage < prevStage || pct < prevPct {
			t.Fatalf("progress went backward at %s: (%d, %.3f) after (%d, %.3f)", elapsed, stage, pct, prevStage, prevPct)
		}
		if pct >= 100 {
			t.Fatalf("interpolation reached %.3f at %s", pct, elapsed)
		}
		prevStage, prevPct = stage, pct
	}
	assert.Equal(t, 4, prevStage)
	assert.Greater(t, prevPct, 98.9)
	assert.LessOrEqual(t, prevPct, 99.0)
}

func TestStageText(t *testing.T) {
	assert.Equal(t, "Fetching product page", StageText(1))
	assert.Equal(t, "Finalizing your store", StageText(4))
	assert.Empty(t, StageText(0))
	assert.Empty(t, StageText(5))
}
