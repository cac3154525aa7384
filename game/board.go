package game

import (
	"fmt"
	"strings"
)

// Board is an N x N grid of stacks together with the pieces each player has
// left to place. Reserves travel with the board so that a copy explored by the
// search carries its own counters.
type Board struct {
	rules    *Rules
	cells    []Stack // indexed by y*size + x
	reserves [NumColors]Reserve
}

// NewBoard returns an empty board with full reserves.
func NewBoard(rules *Rules) *Board {
	b := &Board{
		rules: rules,
		cells: make([]Stack, rules.Size*rules.Size),
	}
	for c := range b.reserves {
		b.reserves[c] = rules.Allotment
	}
	return b
}

func (b *Board) Rules() *Rules {
	return b.rules
}

func (b *Board) Size() int {
	return b.rules.Size
}

func (b *Board) CarryLimit() int {
	return b.rules.CarryLimit
}

// InBounds reports whether (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.rules.Size && y < b.rules.Size
}

func (b *Board) index(x, y int) int {
	return y*b.rules.Size + x
}

// Stack returns the stack at (x, y), or nil when out of bounds. The returned
// slice is owned by the board and must not be modified.
func (b *Board) Stack(x, y int) Stack {
	if !b.InBounds(x, y) {
		return nil
	}
	return b.cells[b.index(x, y)]
}

// PieceAt returns the top piece at (x, y). The boolean is false for empty or
// out of bounds cells.
func (b *Board) PieceAt(x, y int) (Piece, bool) {
	return b.Stack(x, y).Top()
}

// PlacePiece puts a single piece on an empty cell. It does not touch the
// reserves; Placement.Execute does.
func (b *Board) PlacePiece(x, y int, p Piece) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	i := b.index(x, y)
	if len(b.cells[i]) != 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, x, y)
	}
	b.cells[i] = append(b.cells[i], p)
	return nil
}

// Reserve returns the pieces c has left to place.
func (b *Board) Reserve(c Color) Reserve {
	return b.reserves[c]
}

// SetReserve overrides the reserve of c. Used to set up positions.
func (b *Board) SetReserve(c Color, r Reserve) {
	b.reserves[c] = r
}

// IsFull reports whether every cell holds at least one piece.
func (b *Board) IsFull() bool {
	for _, s := range b.cells {
		if len(s) == 0 {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no cell holds a piece.
func (b *Board) IsEmpty() bool {
	for _, s := range b.cells {
		if len(s) != 0 {
			return false
		}
	}
	return true
}

// Copy returns a fully independent board. Rules are shared since they are
// immutable.
func (b *Board) Copy() *Board {
	cells := make([]Stack, len(b.cells))
	for i, s := range b.cells {
		cells[i] = s.clone()
	}
	return &Board{
		rules:    b.rules,
		cells:    cells,
		reserves: b.reserves,
	}
}

// Equal reports whether both boards hold the same pieces and reserves.
func (b *Board) Equal(other *Board) bool {
	if b.rules.Size != other.rules.Size || b.reserves != other.reserves {
		return false
	}
	for i := range b.cells {
		if len(b.cells[i]) != len(other.cells[i]) {
			return false
		}
		for j := range b.cells[i] {
			if b.cells[i][j] != other.cells[i][j] {
				return false
			}
		}
	}
	return true
}

// PieceCount returns how many pieces of type t owned by c are on the board.
func (b *Board) PieceCount(c Color, t PieceType) int {
	n := 0
	for _, s := range b.cells {
		for _, p := range s {
			if p.Owner == c && p.Type == t {
				n++
			}
		}
	}
	return n
}

// String renders the board one row per line, each cell as its stack from
// bottom to top (b/g for flats, B/G for standing stones, C/K for capstones).
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.rules.Size; y++ {
		for x := 0; x < b.rules.Size; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			s := b.cells[b.index(x, y)]
			if len(s) == 0 {
				sb.WriteByte('.')
				continue
			}
			for _, p := range s {
				sb.WriteByte(pieceGlyph(p))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pieceGlyph(p Piece) byte {
	glyphs := [NumColors][NumPieceTypes]byte{
		Blue:  {FlatStone: 'b', StandingStone: 'B', Capstone: 'C'},
		Green: {FlatStone: 'g', StandingStone: 'G', Capstone: 'K'},
	}
	return glyphs[p.Owner][p.Type]
}
