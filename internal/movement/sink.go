package movement

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Move is a single tile transition in flight.
type Move struct {
	Direction Direction
	From      Tile
	To        Tile
	Elapsed   time.Duration
	Duration  time.Duration
}

// Progress returns elapsed/duration capped at 1.
func (m Move) Progress() float64 {
	if m.Duration <= 0 {
		return 1
	}
	p := float64(m.Elapsed) / float64(m.Duration)
	if p > 1 {
		return 1
	}
	return p
}

// Sink receives the controller's per-tick notifications. Calls happen on the
// goroutine driving Update and input, in the order PositionChanged then
// TileEntered.
type Sink interface {
	// PositionChanged fires every tick a move is active, and once on Start.
	PositionChanged(visual mgl64.Vec2, progress float64)
	// TileEntered fires once per completed move.
	TileEntered(tile Tile, dir Direction)
}

// MoveObserver is an optional extension of Sink. When the sink also
// implements it the controller reports move starts and rejected attempts.
type MoveObserver interface {
	MoveStarted(m Move)
	MoveBlocked(from, to Tile, dir Direction)
}

// SinkFuncs adapts plain functions to Sink and MoveObserver. Nil fields are
// skipped.
type SinkFuncs struct {
	OnPositionChanged func(visual mgl64.Vec2, progress float64)
	OnTileEntered     func(tile Tile, dir Direction)
	OnMoveStarted     func(m Move)
	OnMoveBlocked     func(from, to Tile, dir Direction)
}

func (f SinkFuncs) PositionChanged(visual mgl64.Vec2, progress float64) {
	if f.OnPositionChanged != nil {
		f.OnPositionChanged(visual, progress)
	}
}

func (f SinkFuncs) TileEntered(tile Tile, dir Direction) {
	if f.OnTileEntered != nil {
		f.OnTileEntered(tile, dir)
	}
}

func (f SinkFuncs) MoveStarted(m Move) {
	if f.OnMoveStarted != nil {
		f.OnMoveStarted(m)
	}
}

func (f SinkFuncs) MoveBlocked(from, to Tile, dir Direction) {
	if f.OnMoveBlocked != nil {
		f.OnMoveBlocked(from, to, dir)
	}
}

type nopSink struct{}

func (nopSink) PositionChanged(mgl64.Vec2, float64) {}
func (nopSink) TileEntered(Tile, Direction)         {}
func (nopSink) MoveStarted(Move)                    {}
func (nopSink) MoveBlocked(Tile, Tile, Direction)   {}
