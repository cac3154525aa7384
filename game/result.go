package game

import "fmt"

// WinReason explains how a game ended.
type WinReason int

const (
	NoWin WinReason = iota
	RoadWin
	FlatWin
	Draw
)

func (r WinReason) String() string {
	switch r {
	case NoWin:
		return "none"
	case RoadWin:
		return "road"
	case FlatWin:
		return "flat"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("WinReason(%d)", int(r))
}

// Result is the outcome of a position. Winner is only meaningful when Over is
// set and Reason is RoadWin or FlatWin.
type Result struct {
	Over   bool
	Winner Color
	Reason WinReason
}

func (r Result) String() string {
	switch {
	case !r.Over:
		return "in progress"
	case r.Reason == Draw:
		return "draw"
	default:
		return fmt.Sprintf("%s wins by %s", r.Winner, r.Reason)
	}
}

// Judge decides whether the game is over after lastMover played on b. Roads
// are checked first, and when both colors have one the last mover wins. A
// full board, or an exhausted reserve when the rules say so, ends the game on
// the flat count.
func Judge(b *Board, lastMover Color) Result {
	mine, theirs := HasRoad(b, lastMover), HasRoad(b, lastMover.Opponent())
	switch {
	case mine:
		return Result{Over: true, Winner: lastMover, Reason: RoadWin}
	case theirs:
		return Result{Over: true, Winner: lastMover.Opponent(), Reason: RoadWin}
	}
	if !flatsDecide(b) {
		return Result{}
	}
	if winner, ok := FlatWinner(b); ok {
		return Result{Over: true, Winner: winner, Reason: FlatWin}
	}
	return Result{Over: true, Reason: Draw}
}

// IsTerminal reports whether no further play is possible on b: a road exists
// or the flat count decides the game.
func IsTerminal(b *Board) bool {
	return flatsDecide(b) || HasRoad(b, Blue) || HasRoad(b, Green)
}

func flatsDecide(b *Board) bool {
	if b.IsFull() {
		return true
	}
	return b.rules.ReserveEndsGame && (b.reserves[Blue].Empty() || b.reserves[Green].Empty())
}
