package movement

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type recordingSink struct {
	positions []mgl64.Vec2
	progress  []float64
	entered   []Tile
	started   []Move
	blocked   []Direction
}

func (r *recordingSink) PositionChanged(visual mgl64.Vec2, progress float64) {
	r.positions = append(r.positions, visual)
	r.progress = append(r.progress, progress)
}

func (r *recordingSink) TileEntered(tile Tile, dir Direction) {
	r.entered = append(r.entered, tile)
}

func (r *recordingSink) MoveStarted(m Move) {
	r.started = append(r.started, m)
}

func (r *recordingSink) MoveBlocked(from, to Tile, dir Direction) {
	r.blocked = append(r.blocked, dir)
}

type fakeInput struct {
	handler      func(KeyEvent)
	unsubscribed int
}

func (f *fakeInput) Subscribe(handler func(KeyEvent)) func() {
	f.handler = handler
	return func() {
		f.handler = nil
		f.unsubscribed++
	}
}

func (f *fakeInput) emit(ev KeyEvent) {
	if f.handler != nil {
		f.handler(ev)
	}
}

type fakeScheduler struct {
	tick      func(time.Duration)
	cancelled int
}

func (f *fakeScheduler) Schedule(tick func(time.Duration)) func() {
	f.tick = tick
	return func() {
		f.tick = nil
		f.cancelled++
	}
}

func newStartedController(start Tile, canMove CanMoveFunc) (*Controller, *recordingSink) {
	sink := &recordingSink{}
	c := NewController(Options{
		Start:     start,
		Speed:     6,
		CanMoveTo: canMove,
		Sink:      sink,
	})
	c.Start()
	return c, sink
}

func press(c *Controller, token string) {
	c.HandleKey(KeyEvent{Token: token, Pressed: true})
}

func release(c *Controller, token string) {
	c.HandleKey(KeyEvent{Token: token, Pressed: false})
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSingleStepAtSixTilesPerSecond(t *testing.T) {
	c, sink := newStartedController(Tile{1, 1}, func(Tile, Direction, Tile) bool { return true })

	press(c, "ArrowUp")

	step := 10 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < time.Second/6; elapsed += step {
		c.Update(step)
	}

	if len(sink.entered) != 1 {
		t.Fatalf("Expected exactly one tile entered, got %d", len(sink.entered))
	}
	if sink.entered[0] != (Tile{1, 0}) {
		t.Errorf("Expected to enter (1,0), got %v", sink.entered[0])
	}
	if len(sink.started) == 0 || sink.started[0].To != (Tile{1, 0}) {
		t.Errorf("Expected first move to target (1,0), got %+v", sink.started)
	}
}

func TestStepsKeepPaceWithFrameRate(t *testing.T) {
	tests := []struct {
		tps       int
		stepTicks int
	}{
		{60, 10},
		{30, 5},
	}
	for _, tt := range tests {
		c, sink := newStartedController(Tile{0, 30}, nil)
		press(c, "ArrowUp")

		frame := time.Second / time.Duration(tt.tps)
		ticks := 0
		for len(sink.entered) == 0 && ticks < 2*tt.stepTicks {
			c.Update(frame)
			ticks++
		}
		if ticks != tt.stepTicks {
			t.Errorf("%d TPS: one step took %d ticks, want %d", tt.tps, ticks, tt.stepTicks)
		}

		for ticks < tt.tps {
			c.Update(frame)
			ticks++
		}
		if len(sink.entered) != 6 {
			t.Errorf("%d TPS: entered %d tiles in one second of held key, want 6", tt.tps, len(sink.entered))
		}
	}
}

func TestStartEmitsInitialPosition(t *testing.T) {
	c, sink := newStartedController(Tile{3, 4}, nil)

	if len(sink.positions) != 1 {
		t.Fatalf("Expected one position on start, got %d", len(sink.positions))
	}
	if sink.positions[0] != (mgl64.Vec2{3, 4}) || sink.progress[0] != 0 {
		t.Errorf("Unexpected start notification %v / %v", sink.positions[0], sink.progress[0])
	}

	c.Start()
	if len(sink.positions) != 1 {
		t.Errorf("Second Start should be a no-op, got %d notifications", len(sink.positions))
	}
}

func TestInterpolationIsLinearAndMonotonic(t *testing.T) {
	c, sink := newStartedController(Tile{2, 2}, nil)
	press(c, "d")
	release(c, "d")

	dur := c.MoveDuration()
	for i := 0; i < 5; i++ {
		c.Update(dur / 5)
	}

	if len(sink.progress) < 6 {
		t.Fatalf("Expected start plus five ticks, got %d", len(sink.progress))
	}
	from := mgl64.Vec2{2, 2}
	to := mgl64.Vec2{3, 2}
	last := 0.0
	for i := 1; i < len(sink.progress); i++ {
		p := sink.progress[i]
		if p < last {
			t.Errorf("Progress decreased at tick %d: %v < %v", i, p, last)
		}
		last = p
		want := from.Add(to.Sub(from).Mul(p))
		got := sink.positions[i]
		if !nearly(got[0], want[0]) || !nearly(got[1], want[1]) {
			t.Errorf("Tick %d: visual %v, want %v", i, got, want)
		}
	}
	if !nearly(sink.progress[1], 0.2) {
		t.Errorf("Expected progress 0.2 after first tick, got %v", sink.progress[1])
	}
}

func TestSnapOnCompletion(t *testing.T) {
	c, _ := newStartedController(Tile{0, 0}, nil)
	press(c, "s")
	release(c, "s")

	c.Update(c.MoveDuration() / 3)
	c.Update(c.MoveDuration())

	if c.TilePosition() != (Tile{0, 1}) {
		t.Fatalf("Expected tile (0,1), got %v", c.TilePosition())
	}
	if c.VisualPosition() != (mgl64.Vec2{0, 1}) {
		t.Errorf("Visual position should equal tile after completion, got %v", c.VisualPosition())
	}
	if c.Moving() {
		t.Errorf("No move should be in flight after release and completion")
	}
}

func TestDiagonalRejectedWhenCornerBlocked(t *testing.T) {
	locked := true
	canMove := func(target Tile, dir Direction, from Tile) bool {
		if locked {
			return false
		}
		return target != (Tile{6, 5})
	}
	c, sink := newStartedController(Tile{5, 5}, canMove)

	press(c, "ArrowUp")
	press(c, "ArrowRight")
	locked = false
	sink.blocked = nil

	c.Update(c.MoveDuration())

	if c.Moving() {
		t.Fatalf("Diagonal through a blocked corner must not start")
	}
	if c.TilePosition() != (Tile{5, 5}) {
		t.Errorf("Expected to stay on (5,5), got %v", c.TilePosition())
	}
	if len(sink.blocked) != 1 || sink.blocked[0] != DirUpRight {
		t.Errorf("Expected one blocked upRight attempt, got %v", sink.blocked)
	}
	if len(sink.entered) != 0 {
		t.Errorf("No tile should be entered, got %v", sink.entered)
	}
}

func TestDiagonalChecksBothNeighbours(t *testing.T) {
	var asked []Tile
	canMove := func(target Tile, dir Direction, from Tile) bool {
		asked = append(asked, target)
		return true
	}
	c := NewController(Options{Start: Tile{5, 5}, CanMoveTo: canMove})

	if !c.passable(Tile{5, 5}, Tile{6, 4}, DirUpRight) {
		t.Fatalf("Open corner should be passable")
	}
	want := []Tile{{5, 4}, {6, 5}, {6, 4}}
	if len(asked) != len(want) {
		t.Fatalf("Expected %d oracle calls, got %v", len(want), asked)
	}
	for i := range want {
		if asked[i] != want[i] {
			t.Errorf("Oracle call %d: got %v, want %v", i, asked[i], want[i])
		}
	}
}

func TestDiagonalPriorityAndDuration(t *testing.T) {
	c, sink := newStartedController(Tile{5, 5}, nil)

	press(c, "ArrowUp")
	press(c, "ArrowRight")

	if dir, _ := c.ActiveDirection(); dir != DirUpRight {
		t.Fatalf("Expected upRight while both held, got %v", dir)
	}

	dur := c.MoveDuration()
	c.Update(dur)
	if c.TilePosition() != (Tile{5, 4}) {
		t.Fatalf("First move should finish the cardinal step, got %v", c.TilePosition())
	}
	move, ok := c.CurrentMove()
	if !ok || move.Direction != DirUpRight {
		t.Fatalf("Expected diagonal move in flight, got %+v", move)
	}
	if want := time.Duration(float64(dur) * DirUpRight.Length()); move.Duration != want {
		t.Errorf("Diagonal duration %v, want %v", move.Duration, want)
	}

	c.Update(dur)
	if c.TilePosition() != (Tile{5, 4}) {
		t.Errorf("Diagonal should still be in flight, got %v", c.TilePosition())
	}
	c.Update(dur)
	if c.TilePosition() != (Tile{6, 3}) {
		t.Errorf("Expected (6,3) after diagonal, got %v", c.TilePosition())
	}
	if len(sink.entered) != 2 {
		t.Errorf("Expected two entered tiles, got %v", sink.entered)
	}
}

func TestDiagonalPriorityIgnoresPressOrder(t *testing.T) {
	c, _ := newStartedController(Tile{0, 0}, func(Tile, Direction, Tile) bool { return false })

	press(c, "d")
	press(c, "w")
	if dir, _ := c.ActiveDirection(); dir != DirUpRight {
		t.Errorf("Expected upRight regardless of order, got %v", dir)
	}
}

func TestMostRecentCardinalWins(t *testing.T) {
	c, _ := newStartedController(Tile{0, 0}, func(Tile, Direction, Tile) bool { return false })

	press(c, "a")
	press(c, "d")
	if dir, _ := c.ActiveDirection(); dir != DirRight {
		t.Fatalf("Expected right as most recent, got %v", dir)
	}
	release(c, "d")
	if dir, _ := c.ActiveDirection(); dir != DirLeft {
		t.Fatalf("Expected left after releasing right, got %v", dir)
	}

	press(c, "w")
	press(c, "d")
	if dir, _ := c.ActiveDirection(); dir != DirUpRight {
		t.Errorf("Expected the newest diagonal upRight, got %v", dir)
	}
}

func TestSecondTokenRefreshesPressOrder(t *testing.T) {
	c, _ := newStartedController(Tile{0, 0}, func(Tile, Direction, Tile) bool { return false })

	press(c, "ArrowLeft")
	press(c, "d")
	if dir, _ := c.ActiveDirection(); dir != DirRight {
		t.Fatalf("Expected right as most recent, got %v", dir)
	}
	press(c, "a")
	if dir, _ := c.ActiveDirection(); dir != DirLeft {
		t.Errorf("A second left key should make left the most recent, got %v", dir)
	}
}

func TestHeldKeyReengagesEveryInterval(t *testing.T) {
	c, sink := newStartedController(Tile{0, 0}, nil)
	press(c, "ArrowRight")

	for i := 1; i <= 5; i++ {
		c.Update(c.MoveDuration())
		if len(sink.entered) != i {
			t.Fatalf("After %d intervals expected %d steps, got %d", i, i, len(sink.entered))
		}
		if sink.entered[i-1] != (Tile{i, 0}) {
			t.Errorf("Step %d entered %v", i, sink.entered[i-1])
		}
	}
	if !c.Moving() {
		t.Errorf("Held key should keep a move in flight")
	}
}

func TestBlockedHeldKeyRetriesEachTick(t *testing.T) {
	wall := 2
	canMove := func(target Tile, dir Direction, from Tile) bool {
		return target.X < wall
	}
	c, sink := newStartedController(Tile{0, 0}, canMove)
	press(c, "ArrowRight")

	c.Update(c.MoveDuration())
	if c.TilePosition() != (Tile{1, 0}) {
		t.Fatalf("Expected (1,0), got %v", c.TilePosition())
	}
	blocked := len(sink.blocked)
	c.Update(time.Millisecond)
	c.Update(time.Millisecond)
	if len(sink.blocked) != blocked+2 {
		t.Errorf("Expected a retry per idle tick, got %d new blocks", len(sink.blocked)-blocked)
	}

	wall = 10
	c.Update(time.Millisecond)
	if !c.Moving() {
		t.Errorf("Move should start once the wall is gone")
	}
}

func TestInFlightMoveIsNotInterrupted(t *testing.T) {
	c, _ := newStartedController(Tile{0, 0}, nil)
	dur := c.MoveDuration()

	press(c, "ArrowRight")
	c.Update(dur / 2)
	release(c, "ArrowRight")
	press(c, "ArrowUp")

	move, ok := c.CurrentMove()
	if !ok || move.Direction != DirRight {
		t.Fatalf("Move should keep its direction, got %+v", move)
	}

	c.Update(dur / 2)
	if c.TilePosition() != (Tile{1, 0}) {
		t.Fatalf("Right move should complete first, got %v", c.TilePosition())
	}
	c.Update(dur)
	if c.TilePosition() != (Tile{1, -1}) {
		t.Errorf("Queued up move should follow, got %v", c.TilePosition())
	}
}

func TestQueueSkipsReleasedDirections(t *testing.T) {
	c, _ := newStartedController(Tile{0, 0}, nil)
	dur := c.MoveDuration()

	press(c, "ArrowDown")
	press(c, "ArrowLeft")
	release(c, "ArrowLeft")
	release(c, "ArrowDown")

	if q := c.QueuedDirections(); len(q) == 0 {
		t.Fatalf("Expected queued directions, got none")
	}
	c.Update(dur)
	if c.TilePosition() != (Tile{0, 1}) {
		t.Fatalf("Expected the started down move to finish, got %v", c.TilePosition())
	}
	if c.Moving() {
		t.Errorf("Released directions must not start moves")
	}
	if len(c.QueuedDirections()) != 0 {
		t.Errorf("Queue should be drained, got %v", c.QueuedDirections())
	}
}

func TestRepeatAndUnboundKeysIgnored(t *testing.T) {
	c, sink := newStartedController(Tile{0, 0}, nil)

	c.HandleKey(KeyEvent{Token: "q", Pressed: true})
	if c.Moving() || len(sink.started) != 0 {
		t.Fatalf("Unbound token should have no effect")
	}

	press(c, "d")
	c.HandleKey(KeyEvent{Token: "d", Pressed: true, Repeat: true})
	c.HandleKey(KeyEvent{Token: "d", Pressed: true})
	if len(sink.started) != 1 {
		t.Errorf("Repeated presses should not start more moves, got %d", len(sink.started))
	}
	if q := c.QueuedDirections(); len(q) != 0 {
		t.Errorf("Repeated presses should not queue, got %v", q)
	}
}

func TestStopReleasesAndCancels(t *testing.T) {
	input := &fakeInput{}
	sched := &fakeScheduler{}
	sink := &recordingSink{}
	c := NewController(Options{Start: Tile{4, 4}, Sink: sink, Input: input, Scheduler: sched})
	c.Start()

	input.emit(KeyEvent{Token: "ArrowLeft", Pressed: true})
	sched.tick(c.MoveDuration() / 2)
	c.Stop()

	if input.unsubscribed != 1 || sched.cancelled != 1 {
		t.Fatalf("Stop should release input and scheduler, got %d/%d", input.unsubscribed, sched.cancelled)
	}
	if c.Moving() {
		t.Errorf("Stop should cancel the move in flight")
	}
	if c.VisualPosition() != (mgl64.Vec2{4, 4}) {
		t.Errorf("Visual should reset to the tile, got %v", c.VisualPosition())
	}
	if len(sink.entered) != 0 {
		t.Errorf("Stop must not fire completion, got %v", sink.entered)
	}

	notified := len(sink.positions)
	c.Update(c.MoveDuration())
	c.HandleKey(KeyEvent{Token: "ArrowLeft", Pressed: true})
	if c.Moving() || len(sink.positions) != notified {
		t.Errorf("Update and input after Stop should be no-ops")
	}

	c.Stop()
	if input.unsubscribed != 1 {
		t.Errorf("Second Stop should be a no-op")
	}

	c.Start()
	if input.handler == nil || sched.tick == nil {
		t.Errorf("Restart should subscribe again")
	}
	if _, ok := c.ActiveDirection(); ok {
		t.Errorf("Held keys should be forgotten across Stop")
	}
}

func TestSinkMayStopDuringCompletion(t *testing.T) {
	var c *Controller
	entered := 0
	c = NewController(Options{Sink: SinkFuncs{
		OnTileEntered: func(Tile, Direction) {
			entered++
			c.Stop()
		},
	}})
	c.Start()
	press(c, "d")
	c.Update(c.MoveDuration())

	if entered != 1 || c.Running() || c.Moving() {
		t.Errorf("Expected a clean stop from the sink, entered=%d running=%v moving=%v", entered, c.Running(), c.Moving())
	}
}

func TestSpeedFloor(t *testing.T) {
	tests := []struct {
		speed float64
		want  float64
	}{
		{0, DefaultSpeed},
		{-3, MinSpeed},
		{0.01, MinSpeed},
		{math.NaN(), MinSpeed},
		{math.Inf(1), MinSpeed},
		{8, 8},
	}
	for _, tt := range tests {
		c := NewController(Options{Speed: tt.speed})
		if c.Speed() != tt.want {
			t.Errorf("speed %v: got %v, want %v", tt.speed, c.Speed(), tt.want)
		}
		if c.MoveDuration() <= 0 {
			t.Errorf("speed %v: duration must be positive, got %v", tt.speed, c.MoveDuration())
		}
	}
}

func TestZeroDeltaIsIgnored(t *testing.T) {
	c, sink := newStartedController(Tile{0, 0}, nil)
	press(c, "d")
	before := len(sink.positions)

	c.Update(0)
	c.Update(-time.Second)
	if len(sink.positions) != before {
		t.Errorf("Non-positive delta should not notify")
	}
}

func TestSetTilePosition(t *testing.T) {
	c, sink := newStartedController(Tile{0, 0}, nil)
	press(c, "d")
	c.SetTilePosition(Tile{9, 9})

	if c.Moving() {
		t.Errorf("Teleport should drop the move in flight")
	}
	if c.VisualPosition() != (mgl64.Vec2{9, 9}) {
		t.Errorf("Visual should follow the teleport, got %v", c.VisualPosition())
	}
	if last := sink.positions[len(sink.positions)-1]; last != (mgl64.Vec2{9, 9}) {
		t.Errorf("Expected a position notification at (9,9), got %v", last)
	}
}
