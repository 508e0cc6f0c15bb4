package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"swordguys/internal/config"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Footsteps plays a short blip each time the actor enters a tile.
type Footsteps struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	mixer       *beep.Mixer
	freq        float64
	duration    time.Duration
	volume      float64
	initialized bool
	step        int
}

// NewFootsteps creates an uninitialised player. Step is a no-op until
// Initialize succeeds.
func NewFootsteps(cfg config.AudioConfig) *Footsteps {
	return &Footsteps{
		sr:       beep.SampleRate(cfg.SampleRate),
		mixer:    &beep.Mixer{},
		freq:     cfg.FrequencyHz,
		duration: time.Duration(cfg.DurationMS) * time.Millisecond,
		volume:   cfg.Volume,
	}
}

// Initialize sets up the audio device
func (f *Footsteps) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initialized {
		return nil
	}
	if err := speaker.Init(f.sr, f.sr.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialise speaker: %w", err)
	}
	speaker.Play(f.mixer)
	f.initialized = true
	return nil
}

// Step queues one footstep.
func (f *Footsteps) Step() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return
	}
	s, err := f.blip()
	if err != nil {
		return
	}
	speaker.Lock()
	f.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending sounds.
func (f *Footsteps) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return
	}
	speaker.Lock()
	f.mixer.Clear()
	speaker.Unlock()
	f.initialized = false
}

// blip builds one footstep. Steps alternate between two pitches.
func (f *Footsteps) blip() (beep.Streamer, error) {
	freq := f.freq
	if f.step%2 == 1 {
		freq *= 0.88
	}
	f.step++

	tone, err := generators.SineTone(f.sr, freq)
	if err != nil {
		return nil, err
	}
	n := f.sr.N(f.duration)
	return &effects.Volume{
		Streamer: &decay{Streamer: beep.Take(n, tone), total: n},
		Base:     2,
		Volume:   f.volume,
	}, nil
}

// decay fades a streamer linearly to silence over total samples.
type decay struct {
	beep.Streamer
	total int
	pos   int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1 - float64(d.pos)/float64(max(1, d.total))
		gain = math.Max(0, gain)
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.pos++
	}
	return n, ok
}
