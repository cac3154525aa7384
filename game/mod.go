// Package game implements the rules of Tak: pieces and stacks, the board,
// placement and movement actions with their text encoding, legal action
// generation, road and flat win detection and position evaluation.
package game

// Evaluate scores b from perspective's point of view; higher is better for
// perspective. Implementations must not modify b.
type Evaluate func(b *Board, perspective Color) float64
