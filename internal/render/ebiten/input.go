package ebiten

import (
	"log"

	"swordguys/internal/game/keytracker"
	"swordguys/internal/movement"

	"github.com/hajimehoshi/ebiten/v2"
)

// Input turns keyboard state into movement key events. Poll must be called
// once per Update.
type Input struct {
	tracker *keytracker.SetTracker
	tokens  map[ebiten.Key]string

	handlers map[int]func(movement.KeyEvent)
	order    []int
	nextID   int
}

// NewInput watches the keys named by tokens. Tokens that name the same key
// (such as "w" and "W") share it; the first one is reported.
func NewInput(tokens []string) *Input {
	in := newInput(tokens)
	in.tracker = keytracker.NewSetTracker(in.keys()...)
	return in
}

func newInput(tokens []string) *Input {
	in := &Input{
		tokens:   make(map[ebiten.Key]string),
		handlers: make(map[int]func(movement.KeyEvent)),
	}
	for _, token := range tokens {
		key, ok := keytracker.KeyByName(token)
		if !ok {
			log.Printf("Warning: no key for binding %q", token)
			continue
		}
		if _, taken := in.tokens[key]; !taken {
			in.tokens[key] = token
		}
	}
	return in
}

func (in *Input) keys() []ebiten.Key {
	keys := make([]ebiten.Key, 0, len(in.tokens))
	for k := range in.tokens {
		keys = append(keys, k)
	}
	return keys
}

// Token returns the token reported for key.
func (in *Input) Token(key ebiten.Key) (string, bool) {
	t, ok := in.tokens[key]
	return t, ok
}

// Subscribe implements movement.InputSource. Keys already down when a
// handler subscribes are reported as fresh presses on the next poll.
func (in *Input) Subscribe(fn func(movement.KeyEvent)) func() {
	id := in.nextID
	in.nextID++
	in.handlers[id] = fn
	in.order = append(in.order, id)
	if in.tracker != nil {
		in.tracker.Reset()
	}
	return func() {
		if _, ok := in.handlers[id]; !ok {
			return
		}
		delete(in.handlers, id)
		for i, other := range in.order {
			if other == id {
				in.order = append(in.order[:i], in.order[i+1:]...)
				break
			}
		}
	}
}

// Poll reads the keyboard and dispatches every edge.
func (in *Input) Poll() {
	if in.tracker == nil {
		return
	}
	in.dispatch(in.tracker.Poll())
}

func (in *Input) dispatch(edges []keytracker.Edge) {
	for _, e := range edges {
		token, ok := in.tokens[e.Key]
		if !ok {
			continue
		}
		ev := movement.KeyEvent{Token: token, Pressed: e.Pressed}
		for _, id := range append([]int(nil), in.order...) {
			if fn, ok := in.handlers[id]; ok {
				fn(ev)
			}
		}
	}
}
