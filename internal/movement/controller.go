package movement

import (
	"math"
	"time"

	"swordguys/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultSpeed is the travel rate in tiles per second.
	DefaultSpeed = 6.0
	// MinSpeed is the floor applied to non-positive or invalid speeds.
	MinSpeed = 0.1
	// DefaultQueueLimit bounds the pending direction queue.
	DefaultQueueLimit = 4

	// completionSlack absorbs the nanoseconds lost when a frame interval
	// such as time.Second/60 is truncated.
	completionSlack = time.Microsecond
)

// CanMoveFunc is the passability oracle. It is asked about the destination of
// every attempted step; for diagonals it is also asked about both orthogonal
// neighbours with the matching cardinal direction.
type CanMoveFunc func(target Tile, dir Direction, from Tile) bool

// Options configures a Controller. Zero values fall back to defaults, so a
// zero Speed means DefaultSpeed; negative or non-finite speeds are raised to
// MinSpeed.
type Options struct {
	Start      Tile
	Speed      float64
	Bindings   KeyBindings
	CanMoveTo  CanMoveFunc
	Sink       Sink
	Input      InputSource
	Scheduler  Scheduler
	QueueLimit int
}

// Controller turns directional input into discrete, collision-checked tile
// moves with a continuously interpolated visual position. It is not safe for
// concurrent use; input and ticks must arrive on the same goroutine.
type Controller struct {
	tile   Tile
	visual mgl64.Vec2

	speed        float64
	baseDuration time.Duration

	bindings  KeyBindings
	tokens    map[string]Direction
	canMoveTo CanMoveFunc
	sink      Sink
	observer  MoveObserver

	input     InputSource
	scheduler Scheduler
	release   []func()
	running   bool

	held    map[string]Direction
	pressed map[Direction]uint64
	seq     uint64
	queue   directionQueue
	move    *Move
}

// NewController builds a stopped controller at opts.Start.
func NewController(opts Options) *Controller {
	speed := opts.Speed
	switch {
	case speed == 0:
		speed = DefaultSpeed
	case !mathutil.Finite(speed):
		speed = MinSpeed
	}
	speed = math.Max(speed, MinSpeed)

	bindings := opts.Bindings
	if bindings == nil {
		bindings = DefaultBindings()
	}
	bindings = NormalizeBindings(bindings)

	c := &Controller{
		tile:         opts.Start,
		visual:       opts.Start.Vec2(),
		speed:        speed,
		baseDuration: time.Duration(float64(time.Second) / speed),
		bindings:     bindings,
		tokens:       bindings.Index(),
		canMoveTo:    opts.CanMoveTo,
		input:        opts.Input,
		scheduler:    opts.Scheduler,
		held:         make(map[string]Direction),
		pressed:      make(map[Direction]uint64),
		queue:        newDirectionQueue(opts.QueueLimit),
	}
	c.SetSink(opts.Sink)
	return c
}

// SetSink replaces the notification sink. A nil sink discards notifications.
func (c *Controller) SetSink(s Sink) {
	if s == nil {
		c.sink = nopSink{}
		c.observer = nopSink{}
		return
	}
	c.sink = s
	if obs, ok := s.(MoveObserver); ok {
		c.observer = obs
	} else {
		c.observer = nopSink{}
	}
}

// Start subscribes to input and the frame scheduler. It is a no-op while
// already running.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true

	if c.input != nil {
		c.release = append(c.release, c.input.Subscribe(c.HandleKey))
	}
	if c.scheduler != nil {
		c.release = append(c.release, c.scheduler.Schedule(c.Update))
	}

	c.sink.PositionChanged(c.visual, 0)
}

// Stop releases input and scheduler registrations, forgets held keys and
// queued directions, and abandons any move in flight without notifying the
// sink. Safe to call repeatedly.
func (c *Controller) Stop() {
	if !c.running {
		return
	}
	c.running = false

	release := c.release
	c.release = nil
	for i := len(release) - 1; i >= 0; i-- {
		if release[i] != nil {
			release[i]()
		}
	}

	c.move = nil
	c.visual = c.tile.Vec2()
	c.queue.clear()
	clear(c.held)
	clear(c.pressed)
}

// Running reports whether Start has been called without a matching Stop.
func (c *Controller) Running() bool { return c.running }

// TilePosition returns the authoritative grid cell.
func (c *Controller) TilePosition() Tile { return c.tile }

// VisualPosition returns the interpolated position used for drawing.
func (c *Controller) VisualPosition() mgl64.Vec2 { return c.visual }

// Speed returns the effective speed in tiles per second.
func (c *Controller) Speed() float64 { return c.speed }

// MoveDuration is the time a single cardinal step takes.
func (c *Controller) MoveDuration() time.Duration { return c.baseDuration }

// Bindings returns the normalised key bindings.
func (c *Controller) Bindings() KeyBindings { return c.bindings }

// CurrentMove returns a copy of the move in flight.
func (c *Controller) CurrentMove() (Move, bool) {
	if c.move == nil {
		return Move{}, false
	}
	return *c.move, true
}

// Moving reports whether a move is in flight.
func (c *Controller) Moving() bool { return c.move != nil }

// QueuedDirections returns a copy of the pending queue, oldest first.
func (c *Controller) QueuedDirections() []Direction { return c.queue.snapshot() }

// ActiveDirection resolves the held keys to a single direction.
func (c *Controller) ActiveDirection() (Direction, bool) {
	return c.resolveActive()
}

// SetTilePosition places the actor, abandoning any move in flight.
func (c *Controller) SetTilePosition(t Tile) {
	c.move = nil
	c.tile = t
	c.visual = t.Vec2()
	if c.running {
		c.sink.PositionChanged(c.visual, 0)
	}
}

// HandleKey applies one input edge. Unbound tokens are ignored.
func (c *Controller) HandleKey(ev KeyEvent) {
	if !c.running {
		return
	}
	dir, ok := c.tokens[ev.Token]
	if !ok {
		return
	}

	if ev.Pressed {
		if ev.Repeat {
			return
		}
		if _, held := c.held[ev.Token]; held {
			return
		}
		c.held[ev.Token] = dir
		c.seq++
		c.pressed[dir] = c.seq
	} else {
		if _, held := c.held[ev.Token]; !held {
			return
		}
		delete(c.held, ev.Token)
		if !c.tokenHeldFor(dir) {
			delete(c.pressed, dir)
		}
	}

	c.queueActive()
	c.processQueue()
}

// Update advances the controller by dt. Called once per frame.
func (c *Controller) Update(dt time.Duration) {
	if !c.running || dt <= 0 {
		return
	}

	if c.move == nil {
		// A held direction that was blocked last tick is tried again.
		if c.queue.empty() {
			c.queueActive()
		}
		c.processQueue()
	}
	if c.move == nil {
		return
	}

	m := c.move
	m.Elapsed += dt
	done := m.Elapsed+completionSlack >= m.Duration
	progress := m.Progress()
	if done {
		progress = 1
	}
	from := m.From.Vec2()
	c.visual = from.Add(m.To.Vec2().Sub(from).Mul(progress))
	c.sink.PositionChanged(c.visual, progress)

	if !done || c.move != m {
		return
	}

	c.tile = m.To
	c.visual = m.To.Vec2()
	c.move = nil
	c.sink.TileEntered(c.tile, m.Direction)
	if !c.running {
		return
	}

	c.queueActive()
	c.processQueue()
}

func (c *Controller) tokenHeldFor(dir Direction) bool {
	for _, d := range c.held {
		if d == dir {
			return true
		}
	}
	return false
}

func (c *Controller) isPressed(dir Direction) bool {
	if v, h, ok := dir.Components(); ok {
		_, vHeld := c.pressed[v]
		_, hHeld := c.pressed[h]
		return vHeld && hHeld
	}
	_, held := c.pressed[dir]
	return held
}

// resolveActive prefers a fully held diagonal, then the most recently pressed
// cardinal. Competing candidates are ordered by press recency.
func (c *Controller) resolveActive() (Direction, bool) {
	best := DirNone
	var bestNew, bestOld uint64
	for _, diag := range Diagonals {
		v, h, _ := diag.Components()
		sv, vok := c.pressed[v]
		sh, hok := c.pressed[h]
		if !vok || !hok {
			continue
		}
		newer, older := max(sv, sh), min(sv, sh)
		if best == DirNone || newer > bestNew || (newer == bestNew && older > bestOld) {
			best, bestNew, bestOld = diag, newer, older
		}
	}
	if best != DirNone {
		return best, true
	}

	for dir, seq := range c.pressed {
		if best == DirNone || seq > bestNew {
			best, bestNew = dir, seq
		}
	}
	return best, best != DirNone
}

func (c *Controller) queueActive() {
	if dir, ok := c.resolveActive(); ok {
		c.enqueue(dir)
	}
}

func (c *Controller) enqueue(dir Direction) bool {
	if !dir.Valid() {
		return false
	}
	if c.queue.empty() && c.move != nil && c.move.Direction == dir {
		return false
	}
	if tail, ok := c.queue.tail(); ok && tail == dir {
		return false
	}
	c.queue.push(dir)
	return true
}

func (c *Controller) processQueue() {
	for c.move == nil {
		dir, ok := c.queue.pop()
		if !ok {
			return
		}
		if !c.isPressed(dir) {
			continue
		}
		if c.startMove(dir) {
			return
		}
	}
}

func (c *Controller) startMove(dir Direction) bool {
	if !dir.Valid() {
		return false
	}

	from := c.tile
	to := from.Step(dir)
	if !c.passable(from, to, dir) {
		c.observer.MoveBlocked(from, to, dir)
		return false
	}

	c.move = &Move{
		Direction: dir,
		From:      from,
		To:        to,
		Duration:  time.Duration(float64(c.baseDuration) * dir.Length()),
	}
	c.observer.MoveStarted(*c.move)
	return true
}

// passable applies the oracle. Diagonals also need both orthogonal
// neighbours open so the actor never slips between two blocked corners.
func (c *Controller) passable(from, to Tile, dir Direction) bool {
	if c.canMoveTo == nil {
		return true
	}
	if v, h, ok := dir.Components(); ok {
		if !c.canMoveTo(from.Step(v), v, from) {
			return false
		}
		if !c.canMoveTo(from.Step(h), h, from) {
			return false
		}
	}
	return c.canMoveTo(to, dir, from)
}
