package game

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	placePrefix = "PLACE_"
	moveKeyword = "MOVE"
)

func (p Placement) String() string {
	return fmt.Sprintf("%s%s %d %d", placePrefix, p.Type, p.X, p.Y)
}

func (m Move) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d %d %s %d", moveKeyword, m.X, m.Y, m.Dir, m.Count)
	for _, d := range m.Drops {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(d))
	}
	return sb.String()
}

// ParseAction decodes the text encoding of an action played by mover at the
// given move count. Placements are attributed to the opponent during the
// opening plies. Only syntax and the drop sum are checked here; legality is
// checked when the action is executed.
func ParseAction(s string, mover Color, moveCount int, rules *Rules) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformedText)
	}

	if strings.HasPrefix(fields[0], placePrefix) {
		t, err := parsePieceType(strings.TrimPrefix(fields[0], placePrefix))
		if err != nil {
			return nil, err
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q wants 2 coordinates", ErrMalformedText, s)
		}
		coords, err := parseInts(fields[1:])
		if err != nil {
			return nil, err
		}
		owner := mover
		if rules.IsOpening(moveCount) {
			owner = mover.Opponent()
		}
		return Placement{X: coords[0], Y: coords[1], Type: t, Owner: owner}, nil
	}

	if fields[0] != moveKeyword {
		return nil, fmt.Errorf("%w: unknown keyword %q", ErrMalformedText, fields[0])
	}
	if len(fields) < 6 {
		return nil, fmt.Errorf("%w: %q is too short", ErrMalformedText, s)
	}
	dir, err := parseDirection(fields[3])
	if err != nil {
		return nil, err
	}
	coords, err := parseInts(fields[1:3])
	if err != nil {
		return nil, err
	}
	counts, err := parseInts(fields[4:])
	if err != nil {
		return nil, err
	}
	m := Move{X: coords[0], Y: coords[1], Dir: dir, Count: counts[0], Drops: counts[1:], Player: mover}
	sum := 0
	for _, d := range m.Drops {
		if d < 1 {
			return nil, fmt.Errorf("%w: drop %d in %q", ErrBadDrops, d, s)
		}
		sum += d
	}
	if sum != m.Count {
		return nil, fmt.Errorf("%w: drops sum to %d, want %d", ErrBadDrops, sum, m.Count)
	}
	return m, nil
}

func parsePieceType(s string) (PieceType, error) {
	for _, t := range PieceTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return FlatStone, fmt.Errorf("%w: unknown piece %q", ErrMalformedText, s)
}

func parseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return Up, fmt.Errorf("%w: unknown direction %q", ErrMalformedText, s)
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedText, f)
		}
		out[i] = n
	}
	return out, nil
}
