package game

import "fmt"

// Direction is the way a stack travels when moved.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the four directions in generation order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta returns the step taken on each drop. Up decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Action is either a Placement or a Move. The set of variants is closed.
type Action interface {
	// Execute applies the action to b. On error b is left untouched.
	Execute(b *Board) (Undo, error)
	// String returns the text encoding understood by ParseAction.
	String() string
	isAction()
}

// Placement puts a new piece from Owner's reserve on an empty cell. Owner is
// the opponent of the mover during the opening plies.
type Placement struct {
	X, Y  int
	Type  PieceType
	Owner Color
}

func (Placement) isAction() {}

func (p Placement) Execute(b *Board) (Undo, error) {
	if b.reserves[p.Owner][p.Type] <= 0 {
		return Undo{}, fmt.Errorf("%w: %s has no %s", ErrNoReserve, p.Owner, p.Type)
	}
	if err := b.PlacePiece(p.X, p.Y, Piece{Type: p.Type, Owner: p.Owner}); err != nil {
		return Undo{}, err
	}
	b.reserves[p.Owner][p.Type]--
	return Undo{action: p}, nil
}

// Move lifts the top Count pieces of the stack at (X, Y) and drops Drops[i]
// of them, bottom first, on the i-th cell in direction Dir.
type Move struct {
	X, Y   int
	Dir    Direction
	Count  int
	Drops  []int
	Player Color
}

func (Move) isAction() {}

// validate checks m against b and returns the carried pieces, still aliasing
// the source stack.
func (m Move) validate(b *Board) (Stack, error) {
	if !m.Dir.Valid() {
		return nil, ErrBadDirection
	}
	if m.Count < 1 || len(m.Drops) == 0 {
		return nil, fmt.Errorf("%w: count %d drops %v", ErrBadDrops, m.Count, m.Drops)
	}
	if m.Count > b.rules.CarryLimit {
		return nil, fmt.Errorf("%w: %d > %d", ErrCarryLimit, m.Count, b.rules.CarryLimit)
	}
	sum := 0
	for _, d := range m.Drops {
		if d < 1 {
			return nil, fmt.Errorf("%w: drop %d", ErrBadDrops, d)
		}
		sum += d
	}
	if sum != m.Count {
		return nil, fmt.Errorf("%w: drops %v sum to %d, want %d", ErrBadDrops, m.Drops, sum, m.Count)
	}
	if !b.InBounds(m.X, m.Y) {
		return nil, fmt.Errorf("%w: source (%d,%d)", ErrOutOfBounds, m.X, m.Y)
	}
	src := b.cells[b.index(m.X, m.Y)]
	if len(src) < m.Count {
		return nil, fmt.Errorf("%w: %d < %d", ErrEmptySource, len(src), m.Count)
	}
	if top, _ := src.Top(); top.Owner != m.Player {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrNotOwner, m.X, m.Y)
	}

	carried := src[len(src)-m.Count:]
	dx, dy := m.Dir.Delta()
	x, y, offset := m.X, m.Y, 0
	for _, d := range m.Drops {
		x, y = x+dx, y+dy
		if !b.InBounds(x, y) {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
		}
		if !canLand(carried[offset], b.cells[b.index(x, y)]) {
			return nil, fmt.Errorf("%w: %s onto (%d,%d)", ErrBlocked, carried[offset].Type, x, y)
		}
		offset += d
	}
	return carried, nil
}

// canLand applies the stacking rules for a piece dropped onto target.
func canLand(p Piece, target Stack) bool {
	top, ok := target.Top()
	if !ok {
		return true
	}
	switch top.Type {
	case FlatStone:
		return true
	case StandingStone:
		return p.Type == Capstone
	default:
		return false
	}
}

func (m Move) Execute(b *Board) (Undo, error) {
	carried, err := m.validate(b)
	if err != nil {
		return Undo{}, err
	}
	carried = carried.clone()
	i := b.index(m.X, m.Y)
	b.cells[i] = b.cells[i][:len(b.cells[i])-m.Count]

	flattened := false
	dx, dy := m.Dir.Delta()
	x, y, offset := m.X, m.Y, 0
	for _, d := range m.Drops {
		x, y = x+dx, y+dy
		j := b.index(x, y)
		if top := len(b.cells[j]) - 1; top >= 0 && b.cells[j][top].Type == StandingStone {
			b.cells[j][top].Type = FlatStone
			flattened = true
		}
		b.cells[j] = append(b.cells[j], carried[offset:offset+d]...)
		offset += d
	}
	return Undo{action: m, flattened: flattened}, nil
}

// Undo records what is needed to take back an executed action.
type Undo struct {
	action    Action
	flattened bool
}

// Action returns the action this record takes back.
func (u Undo) Action() Action {
	return u.action
}

// Revert restores b to its state before the action was executed. It must be
// called on the board the action was executed on, with no other change since.
func (u Undo) Revert(b *Board) error {
	switch a := u.action.(type) {
	case Placement:
		if !b.InBounds(a.X, a.Y) {
			return fmt.Errorf("cannot revert %s: %w", a, ErrOutOfBounds)
		}
		i := b.index(a.X, a.Y)
		if len(b.cells[i]) != 1 {
			return fmt.Errorf("cannot revert %s: cell holds %d pieces", a, len(b.cells[i]))
		}
		b.cells[i] = b.cells[i][:0]
		b.reserves[a.Owner][a.Type]++
		return nil
	case Move:
		return a.revert(b, u.flattened)
	case nil:
		return fmt.Errorf("cannot revert: empty undo record")
	}
	return fmt.Errorf("cannot revert: unknown action %T", u.action)
}

func (m Move) revert(b *Board, flattened bool) error {
	dx, dy := m.Dir.Delta()
	n := len(m.Drops)
	lastX, lastY := m.X+dx*n, m.Y+dy*n
	if !b.InBounds(m.X, m.Y) || !b.InBounds(lastX, lastY) {
		return fmt.Errorf("cannot revert %s: %w", m, ErrOutOfBounds)
	}
	for k := n - 1; k >= 0; k-- {
		j := b.index(m.X+dx*(k+1), m.Y+dy*(k+1))
		if len(b.cells[j]) < m.Drops[k] {
			return fmt.Errorf("cannot revert %s: cell %d too small", m, k)
		}
	}

	carried := make(Stack, 0, m.Count)
	for k := n - 1; k >= 0; k-- {
		j := b.index(m.X+dx*(k+1), m.Y+dy*(k+1))
		cut := len(b.cells[j]) - m.Drops[k]
		carried = append(b.cells[j][cut:].clone(), carried...)
		b.cells[j] = b.cells[j][:cut]
	}
	if flattened {
		j := b.index(lastX, lastY)
		b.cells[j][len(b.cells[j])-1].Type = StandingStone
	}
	i := b.index(m.X, m.Y)
	b.cells[i] = append(b.cells[i], carried...)
	return nil
}
