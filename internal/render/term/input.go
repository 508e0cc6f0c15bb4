package term

import (
	"sort"
	"time"

	"swordguys/internal/movement"

	"github.com/gdamore/tcell/v2"
)

// Input adapts tcell key events. Terminals report presses and auto-repeats
// but no releases, so a key counts as released once nothing has arrived
// for it within the hold timeout.
type Input struct {
	hold time.Duration
	now  func() time.Time

	held     map[string]time.Time
	handlers map[int]func(movement.KeyEvent)
	order    []int
	nextID   int
}

func NewInput(hold time.Duration) *Input {
	if hold <= 0 {
		hold = 180 * time.Millisecond
	}
	return &Input{
		hold:     hold,
		now:      time.Now,
		held:     make(map[string]time.Time),
		handlers: make(map[int]func(movement.KeyEvent)),
	}
}

// Token names a key event the way bindings do: "ArrowUp" for arrows and the
// character itself for runes. Other keys have no token.
func Token(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp"
	case tcell.KeyDown:
		return "ArrowDown"
	case tcell.KeyLeft:
		return "ArrowLeft"
	case tcell.KeyRight:
		return "ArrowRight"
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ""
}

// Subscribe implements movement.InputSource.
func (in *Input) Subscribe(fn func(movement.KeyEvent)) func() {
	id := in.nextID
	in.nextID++
	in.handlers[id] = fn
	in.order = append(in.order, id)
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

// HandleKey records a press or an auto-repeat of ev.
func (in *Input) HandleKey(ev *tcell.EventKey) {
	token := Token(ev)
	if token == "" {
		return
	}
	_, repeat := in.held[token]
	in.held[token] = in.now()
	in.dispatch(movement.KeyEvent{Token: token, Pressed: true, Repeat: repeat})
}

// Expire releases keys whose hold timeout has passed. Call it every frame.
func (in *Input) Expire() {
	now := in.now()
	var released []string
	for token, last := range in.held {
		if now.Sub(last) >= in.hold {
			released = append(released, token)
		}
	}
	sort.Strings(released)
	for _, token := range released {
		delete(in.held, token)
		in.dispatch(movement.KeyEvent{Token: token})
	}
}

// ReleaseAll releases every held key, e.g. when focus is lost.
func (in *Input) ReleaseAll() {
	var released []string
	for token := range in.held {
		released = append(released, token)
	}
	sort.Strings(released)
	for _, token := range released {
		delete(in.held, token)
		in.dispatch(movement.KeyEvent{Token: token})
	}
}

func (in *Input) dispatch(ev movement.KeyEvent) {
	for _, id := range append([]int(nil), in.order...) {
		if fn, ok := in.handlers[id]; ok {
			fn(ev)
		}
	}
}
