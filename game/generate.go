package game

// compositions[k] lists every ordered way of writing k as a sum of positive
// integers, for k up to MaxBoardSize. The table is read-only.
var compositions = buildCompositions(MaxBoardSize)

func buildCompositions(max int) [][][]int {
	table := make([][][]int, max+1)
	table[0] = [][]int{{}}
	for k := 1; k <= max; k++ {
		for first := 1; first <= k; first++ {
			for _, rest := range table[k-first] {
				c := make([]int, 0, len(rest)+1)
				c = append(c, first)
				c = append(c, rest...)
				table[k] = append(table[k], c)
			}
		}
	}
	return table
}

// Compositions returns the ordered partitions of k into positive parts. The
// result must not be modified.
func Compositions(k int) [][]int {
	if k < 1 || k >= len(compositions) {
		return nil
	}
	return compositions[k]
}

// GenerateActions lists every legal action for player on b at the given move
// count. During the opening plies only flat stone placements of the
// opponent's pieces are legal. Moves are validated by trial execution on a
// scratch copy, so the generator agrees with Execute by construction.
func GenerateActions(b *Board, player Color, moveCount int) []Action {
	rules := b.rules
	opening := rules.IsOpening(moveCount)

	owner := player
	types := PieceTypes[:]
	if opening {
		owner = player.Opponent()
		types = types[:1] // FlatStone
	}

	var actions []Action
	reserve := b.reserves[owner]
	size := rules.Size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if len(b.cells[b.index(x, y)]) != 0 {
				continue
			}
			for _, t := range types {
				if reserve[t] > 0 {
					actions = append(actions, Placement{X: x, Y: y, Type: t, Owner: owner})
				}
			}
		}
	}
	if opening {
		return actions
	}

	scratch := b.Copy()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			stack := b.cells[b.index(x, y)]
			if !stack.Controlled(player) {
				continue
			}
			carry := min(rules.CarryLimit, len(stack))
			for _, dir := range Directions {
				reach := distanceToEdge(x, y, dir, size)
				if reach == 0 {
					continue
				}
				for count := 1; count <= carry; count++ {
					for _, drops := range compositions[count] {
						if len(drops) > reach {
							continue
						}
						m := Move{X: x, Y: y, Dir: dir, Count: count, Drops: drops, Player: player}
						undo, err := m.Execute(scratch)
						if err != nil {
							continue
						}
						if err := undo.Revert(scratch); err != nil {
							scratch = b.Copy()
						}
						m.Drops = append([]int(nil), drops...)
						actions = append(actions, m)
					}
				}
			}
		}
	}
	return actions
}

// distanceToEdge returns how many steps fit between (x, y) and the edge in dir.
func distanceToEdge(x, y int, dir Direction, size int) int {
	switch dir {
	case Up:
		return y
	case Down:
		return size - 1 - y
	case Left:
		return x
	case Right:
		return size - 1 - x
	}
	return 0
}
