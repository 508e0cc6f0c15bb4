package game

import "time"

// Frames is the per-frame scheduler shared by both clients. The client loop
// calls Tick once per frame; every scheduled function receives the same dt.
type Frames struct {
	entries []*frameEntry
}

type frameEntry struct {
	tick      func(time.Duration)
	cancelled bool
}

func NewFrames() *Frames {
	return &Frames{}
}

// Schedule registers tick. The returned cancel is idempotent.
func (f *Frames) Schedule(tick func(dt time.Duration)) func() {
	e := &frameEntry{tick: tick}
	f.entries = append(f.entries, e)
	return func() {
		if e.cancelled {
			return
		}
		e.cancelled = true
		for i, other := range f.entries {
			if other == e {
				f.entries = append(f.entries[:i], f.entries[i+1:]...)
				break
			}
		}
	}
}

// Tick runs every registered function in registration order. Functions
// cancelled during the tick are skipped.
func (f *Frames) Tick(dt time.Duration) {
	snapshot := append([]*frameEntry(nil), f.entries...)
	for _, e := range snapshot {
		if !e.cancelled {
			e.tick(dt)
		}
	}
}

// Len reports the number of live registrations.
func (f *Frames) Len() int { return len(f.entries) }
