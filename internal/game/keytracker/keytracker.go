// keytracker.go - key edge detection for Ebiten v2.8.8.
// Ebiten reports key state per frame; SetTracker turns it into
// press/release edges.
package keytracker

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Edge is a change in one key's state since the previous poll.
type Edge struct {
	Key     ebiten.Key
	Pressed bool
}

// SetTracker follows a fixed set of keys.
type SetTracker struct {
	keys    []ebiten.Key
	prev    map[ebiten.Key]bool
	pressed func(ebiten.Key) bool
}

// NewSetTracker tracks keys using ebiten.IsKeyPressed.
func NewSetTracker(keys ...ebiten.Key) *SetTracker {
	return newSetTracker(ebiten.IsKeyPressed, keys)
}

func newSetTracker(pressed func(ebiten.Key) bool, keys []ebiten.Key) *SetTracker {
	seen := make(map[ebiten.Key]bool)
	var unique []ebiten.Key
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}
	return &SetTracker{keys: unique, prev: make(map[ebiten.Key]bool), pressed: pressed}
}

// Poll returns the edges since the last call, in tracking order.
func (t *SetTracker) Poll() []Edge {
	var edges []Edge
	for _, k := range t.keys {
		now := t.pressed(k)
		if now != t.prev[k] {
			edges = append(edges, Edge{Key: k, Pressed: now})
			t.prev[k] = now
		}
	}
	return edges
}

// Held returns the keys currently down according to the last poll.
func (t *SetTracker) Held() []ebiten.Key {
	var held []ebiten.Key
	for _, k := range t.keys {
		if t.prev[k] {
			held = append(held, k)
		}
	}
	return held
}

// Reset forgets all key state so held keys are reported again as presses.
func (t *SetTracker) Reset() {
	clear(t.prev)
}

var keysByName map[string]ebiten.Key

func init() {
	keysByName = make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		keysByName[strings.ToLower(k.String())] = k
	}
}

// KeyByName resolves an input token such as "ArrowUp" or "w" to a key.
// Letters match either case.
func KeyByName(name string) (ebiten.Key, bool) {
	k, ok := keysByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}
