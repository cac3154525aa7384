package game

import "fmt"

const (
	MinBoardSize = 3
	MaxBoardSize = 8
)

// Reserve counts the pieces a player has left to place, indexed by PieceType.
type Reserve [NumPieceTypes]int

func (r Reserve) Total() int {
	return r[FlatStone] + r[StandingStone] + r[Capstone]
}

// Empty reports whether no piece of any type is left.
func (r Reserve) Empty() bool {
	return r.Total() == 0
}

// Rules holds the variant parameters of a game. A Rules value is shared by a
// board and all of its copies and must not be modified after construction.
type Rules struct {
	Size         int     // Board is Size x Size
	CarryLimit   int     // Maximum pieces lifted by a single move
	Allotment    Reserve // Pieces each player starts with
	OpeningPlies int     // Plies during which players place the opponent's flat stones
	// ReserveEndsGame also ends the game on a flat count once either player
	// has placed every piece. Off by default: only a full board or a road ends
	// the game.
	ReserveEndsGame bool
}

var (
	standardFlats     = map[int]int{3: 10, 4: 15, 5: 21, 6: 30, 7: 40, 8: 50}
	standardCapstones = map[int]int{3: 0, 4: 0, 5: 1, 6: 1, 7: 2, 8: 2}
)

// NewStandardRules returns the default rules for a board of the given size.
func NewStandardRules(size int) (*Rules, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: board size %d not in [%d, %d]", ErrInvalidRules, size, MinBoardSize, MaxBoardSize)
	}
	return &Rules{
		Size:       size,
		CarryLimit: size,
		Allotment: Reserve{
			FlatStone:     standardFlats[size],
			StandingStone: size,
			Capstone:      standardCapstones[size],
		},
		OpeningPlies: 2,
	}, nil
}

// MustStandardRules is NewStandardRules for sizes known to be valid.
func MustStandardRules(size int) *Rules {
	r, err := NewStandardRules(size)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks that the rules describe a playable game.
func (r *Rules) Validate() error {
	if r.Size < MinBoardSize || r.Size > MaxBoardSize {
		return fmt.Errorf("%w: board size %d not in [%d, %d]", ErrInvalidRules, r.Size, MinBoardSize, MaxBoardSize)
	}
	if r.CarryLimit < 1 || r.CarryLimit > r.Size {
		return fmt.Errorf("%w: carry limit %d not in [1, %d]", ErrInvalidRules, r.CarryLimit, r.Size)
	}
	for _, t := range PieceTypes {
		if r.Allotment[t] < 0 {
			return fmt.Errorf("%w: negative allotment of %s", ErrInvalidRules, t)
		}
	}
	if r.Allotment[FlatStone] == 0 {
		return fmt.Errorf("%w: no flat stones", ErrInvalidRules)
	}
	if r.OpeningPlies < 0 {
		return fmt.Errorf("%w: negative opening plies", ErrInvalidRules)
	}
	return nil
}

// IsOpening reports whether a ply with the given move count falls under the
// opening rule.
func (r *Rules) IsOpening(moveCount int) bool {
	return moveCount < r.OpeningPlies
}
