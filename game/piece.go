package game

import "fmt"

// Color identifies one of the two players.
type Color int

const (
	Blue Color = iota
	Green
)

// NumColors is the number of players in a game.
const NumColors = 2

func (c Color) Opponent() Color {
	if c == Blue {
		return Green
	}
	return Blue
}

func (c Color) String() string {
	switch c {
	case Blue:
		return "BLUE"
	case Green:
		return "GREEN"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// ParseColor accepts the names produced by Color.String, case-sensitively.
func ParseColor(s string) (Color, error) {
	switch s {
	case "BLUE":
		return Blue, nil
	case "GREEN":
		return Green, nil
	}
	return Blue, fmt.Errorf("unknown color %q", s)
}

// PieceType is the kind of a piece.
type PieceType int

const (
	FlatStone PieceType = iota
	StandingStone
	Capstone
)

// NumPieceTypes is the number of distinct piece types.
const NumPieceTypes = 3

// PieceTypes lists every piece type in placement order.
var PieceTypes = [NumPieceTypes]PieceType{FlatStone, StandingStone, Capstone}

func (t PieceType) String() string {
	switch t {
	case FlatStone:
		return "FLAT_STONE"
	case StandingStone:
		return "STANDING_STONE"
	case Capstone:
		return "CAPSTONE"
	default:
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
}

// IsRoad reports whether a piece of this type counts towards a road.
// Standing stones block roads.
func (t PieceType) IsRoad() bool {
	return t == FlatStone || t == Capstone
}

// Piece is a single stone on the board.
type Piece struct {
	Type  PieceType
	Owner Color
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Owner, p.Type)
}

// Stack holds the pieces of one cell, bottom to top.
type Stack []Piece

func (s Stack) Height() int {
	return len(s)
}

// Top returns the topmost piece, or false when the stack is empty.
func (s Stack) Top() (Piece, bool) {
	if len(s) == 0 {
		return Piece{}, false
	}
	return s[len(s)-1], true
}

// Controlled reports whether the top piece belongs to c.
func (s Stack) Controlled(c Color) bool {
	top, ok := s.Top()
	return ok && top.Owner == c
}

// clone returns an independent copy of the stack.
func (s Stack) clone() Stack {
	if len(s) == 0 {
		return nil
	}
	c := make(Stack, len(s))
	copy(c, s)
	return c
}
