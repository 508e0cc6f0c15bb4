package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameMonitor tracks per-frame timing for the debug HUD.
type FrameMonitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Int64 // nanoseconds, last frame
	tickCount  atomic.Uint64
	stepCount  atomic.Uint64

	mutex        sync.RWMutex
	avgFrameTime float64 // nanoseconds, exponential moving average
	smoothing    float64
	startTime    time.Time
}

// NewFrameMonitor creates a monitor whose average weights the newest frame
// by smoothing (0 < smoothing <= 1).
func NewFrameMonitor(smoothing float64) *FrameMonitor {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = 0.1
	}
	return &FrameMonitor{smoothing: smoothing, startTime: time.Now()}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *FrameMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (fm *FrameMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: fm, startTime: time.Now()}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.RecordFrame(time.Since(ft.startTime))
}

// RecordFrame adds one frame of the given duration.
func (fm *FrameMonitor) RecordFrame(d time.Duration) {
	fm.frameTime.Store(int64(d))
	n := fm.frameCount.Add(1)

	fm.mutex.Lock()
	if n == 1 {
		fm.avgFrameTime = float64(d)
	} else {
		fm.avgFrameTime += (float64(d) - fm.avgFrameTime) * fm.smoothing
	}
	fm.mutex.Unlock()
}

// RecordTick counts one simulation tick.
func (fm *FrameMonitor) RecordTick() { fm.tickCount.Add(1) }

// RecordStep counts one completed tile move.
func (fm *FrameMonitor) RecordStep() { fm.stepCount.Add(1) }

// FrameStats is a snapshot of the monitor.
type FrameStats struct {
	Frames       uint64
	Ticks        uint64
	Steps        uint64
	LastFrame    time.Duration
	AverageFrame time.Duration
	Uptime       time.Duration
}

// FPS estimates frames per second from the average frame time.
func (s FrameStats) FPS() float64 {
	if s.AverageFrame <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AverageFrame)
}

// GetStats returns current statistics
func (fm *FrameMonitor) GetStats() FrameStats {
	fm.mutex.RLock()
	avg := fm.avgFrameTime
	fm.mutex.RUnlock()

	return FrameStats{
		Frames:       fm.frameCount.Load(),
		Ticks:        fm.tickCount.Load(),
		Steps:        fm.stepCount.Load(),
		LastFrame:    time.Duration(fm.frameTime.Load()),
		AverageFrame: time.Duration(avg),
		Uptime:       time.Since(fm.startTime),
	}
}
