package game

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is wrapped by every rule violation raised while executing an
// action. Search and generation treat it as "candidate not legal".
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrOutOfBounds   = fmt.Errorf("%w: out of bounds", ErrInvalidMove)
	ErrOccupied      = fmt.Errorf("%w: cell is not empty", ErrInvalidMove)
	ErrNoReserve     = fmt.Errorf("%w: no pieces of that type left", ErrInvalidMove)
	ErrEmptySource   = fmt.Errorf("%w: source stack is too small", ErrInvalidMove)
	ErrNotOwner      = fmt.Errorf("%w: top piece belongs to the opponent", ErrInvalidMove)
	ErrCarryLimit    = fmt.Errorf("%w: carry limit exceeded", ErrInvalidMove)
	ErrBadDrops      = fmt.Errorf("%w: malformed drop counts", ErrInvalidMove)
	ErrBadDirection  = fmt.Errorf("%w: unknown direction", ErrInvalidMove)
	ErrBlocked       = fmt.Errorf("%w: illegal stacking target", ErrInvalidMove)
	ErrOpeningPiece  = fmt.Errorf("%w: only flat stones may be placed during the opening", ErrInvalidMove)
	ErrOpeningMove   = fmt.Errorf("%w: stacks may not be moved during the opening", ErrInvalidMove)
	ErrWrongOwner    = fmt.Errorf("%w: placement owner does not match the turn", ErrInvalidMove)
	ErrMalformedText = fmt.Errorf("%w: malformed action text", ErrInvalidMove)
)

var (
	// ErrGameOver is returned for any action attempted after the game ended.
	ErrGameOver = errors.New("game is over")
	// ErrWrongTurn is returned when an action is submitted for the side not to move.
	ErrWrongTurn = errors.New("not this player's turn")
	// ErrInvalidRules is returned for unplayable rule sets.
	ErrInvalidRules = errors.New("invalid rules")
)
