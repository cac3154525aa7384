package game

// isRoadCell reports whether the top piece at index i is a road piece of c.
func (b *Board) isRoadCell(i int, c Color) bool {
	top, ok := b.cells[i].Top()
	return ok && top.Owner == c && top.Type.IsRoad()
}

// HasRoad reports whether c connects two opposite edges with an unbroken
// chain of flat stones and capstones. Left-to-right and top-to-bottom chains
// both count.
func HasRoad(b *Board, c Color) bool {
	size := b.rules.Size
	visited := make([]bool, len(b.cells))

	// Left column to right column
	for y := 0; y < size; y++ {
		i := b.index(0, y)
		if !visited[i] && b.isRoadCell(i, c) && b.reaches(i, c, visited, reachesRight) {
			return true
		}
	}

	clear(visited)
	// Top row to bottom row
	for x := 0; x < size; x++ {
		i := b.index(x, 0)
		if !visited[i] && b.isRoadCell(i, c) && b.reaches(i, c, visited, reachesBottom) {
			return true
		}
	}
	return false
}

func reachesRight(b *Board, i int) bool {
	return i%b.rules.Size == b.rules.Size-1
}

func reachesBottom(b *Board, i int) bool {
	return i/b.rules.Size == b.rules.Size-1
}

// reaches runs a depth-first search from start over c's road cells and stops
// as soon as goal holds for a visited cell.
func (b *Board) reaches(start int, c Color, visited []bool, goal func(*Board, int) bool) bool {
	size := b.rules.Size
	stack := []int{start}
	visited[start] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if goal(b, i) {
			return true
		}
		x, y := i%size, i/size
		for _, d := range Directions {
			dx, dy := d.Delta()
			nx, ny := x+dx, y+dy
			if !b.InBounds(nx, ny) {
				continue
			}
			j := b.index(nx, ny)
			if !visited[j] && b.isRoadCell(j, c) {
				visited[j] = true
				stack = append(stack, j)
			}
		}
	}
	return false
}

// FlatCount returns how many stacks c tops with a flat stone. Capstones and
// standing stones do not count.
func FlatCount(b *Board, c Color) int {
	n := 0
	for _, s := range b.cells {
		if top, ok := s.Top(); ok && top.Owner == c && top.Type == FlatStone {
			n++
		}
	}
	return n
}

// FlatWinner returns the color with more flat-topped stacks. The boolean is
// false on an exact tie.
func FlatWinner(b *Board) (Color, bool) {
	blue, green := FlatCount(b, Blue), FlatCount(b, Green)
	switch {
	case blue > green:
		return Blue, true
	case green > blue:
		return Green, true
	default:
		return Blue, false
	}
}
