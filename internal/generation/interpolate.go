package generation

import (
	"math"
	"time"

	"storefront-wizard/internal/model"
)

type phase struct {
	from, to time.Duration
	stage    int
	lo, hi   float64
}

var phases = []phase{
	{from: 0, to: 15 * time.Second, stage: 1, lo: 0, hi: 40},
	{from: 15 * time.Second, to: 35 * time.Second, stage: 2, lo: 40, hi: 70},
	{from: 35 * time.Second, to: 50 * time.Second, stage: 3, lo: 70, hi: 90},
}

const (
	tailStart    = 50 * time.Second
	tailConstant = 20 * time.Second
	tailFloor    = 90.0
	tailCeiling  = 99.0
	tailStage    = model.MaxStage
)

// Interpolate maps time since a run started to the stage and percent shown
// while no checkpoint has said otherwise. It is monotonic in elapsed and
// never reaches 100.
func Interpolate(elapsed time.Duration) (int, float64) {
	if elapsed < 0 {
		elapsed = 0
	}
	for _, p := range phases {
		if elapsed < p.to {
			frac := float64(elapsed-p.from) / float64(p.to-p.from)
			return p.stage, p.lo + (p.hi-p.lo)*frac
		}
	}
	x := float64(elapsed-tailStart) / float64(tailConstant)
	pct := tailFloor + (tailCeiling-tailFloor)*(1-math.Exp(-x))
	if pct > tailCeiling {
		pct = tailCeiling
	}
	return tailStage, pct
}

var stageTexts = map[int]string{
	1: "Fetching product page",
	2: "Reading product details",
	3: "Writing storefront copy",
	4: "Finalizing your store",
}

func StageText(stage int) string {
	if text, ok := stageTexts[stage]; ok {
		return text
	}
	return ""
}
