package ebiten

import (
	"log"
	"time"

	"swordguys/internal/monitoring"
)

const (
	perfLowFpsThreshold = 50.0
	perfLowFpsDuration  = 3 * time.Second
	perfLogInterval     = 3 * time.Second
)

// perfWatch logs a snapshot when the frame rate stays low.
type perfWatch struct {
	lowSince time.Time
	lastLog  time.Time
}

// check reports whether a snapshot should be logged now.
func (p *perfWatch) check(now time.Time, fps float64) bool {
	if fps >= perfLowFpsThreshold {
		p.lowSince = time.Time{}
		p.lastLog = time.Time{}
		return false
	}

	if p.lowSince.IsZero() {
		p.lowSince = now
		return false
	}
	if now.Sub(p.lowSince) < perfLowFpsDuration {
		return false
	}
	if !p.lastLog.IsZero() && now.Sub(p.lastLog) < perfLogInterval {
		return false
	}
	p.lastLog = now
	return true
}

func logPerfSnapshot(fps, tps float64, stats monitoring.FrameStats) {
	log.Printf("[PERF] FPS<%.0f for >=%s | fps=%.1f tps=%.1f frame=%s avg=%s steps=%d",
		perfLowFpsThreshold, perfLowFpsDuration, fps, tps,
		stats.LastFrame, stats.AverageFrame, stats.Steps)
}
