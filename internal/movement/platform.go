package movement

import "time"

// KeyEvent is a press or release edge for one input token.
type KeyEvent struct {
	Token   string
	Pressed bool
	// Repeat marks auto-repeat presses generated while a key stays down.
	Repeat bool
}

// InputSource delivers key edges. Subscribe returns a function that removes
// the handler; calling it more than once is harmless.
type InputSource interface {
	Subscribe(handler func(KeyEvent)) (unsubscribe func())
}

// Scheduler calls tick once per frame with the time since the previous frame.
// Schedule returns a function that cancels the registration.
type Scheduler interface {
	Schedule(tick func(dt time.Duration)) (cancel func())
}

// directionQueue is a bounded FIFO of pending direction requests. When full,
// the oldest entry is dropped.
type directionQueue struct {
	items []Direction
	limit int
}

func newDirectionQueue(limit int) directionQueue {
	if limit < 1 {
		limit = DefaultQueueLimit
	}
	return directionQueue{items: make([]Direction, 0, limit), limit: limit}
}

func (q *directionQueue) empty() bool { return len(q.items) == 0 }

func (q *directionQueue) tail() (Direction, bool) {
	if len(q.items) == 0 {
		return DirNone, false
	}
	return q.items[len(q.items)-1], true
}

func (q *directionQueue) push(d Direction) {
	if len(q.items) >= q.limit {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, d)
}

func (q *directionQueue) pop() (Direction, bool) {
	if len(q.items) == 0 {
		return DirNone, false
	}
	d := q.items[0]
	copy(q.items, q.items[1:])
	q.items = q.items[:len(q.items)-1]
	return d, true
}

func (q *directionQueue) clear() { q.items = q.items[:0] }

func (q *directionQueue) snapshot() []Direction {
	return append([]Direction(nil), q.items...)
}
