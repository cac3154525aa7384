package game

import "fmt"

// Player is one seat of a game. How the player picks actions is decided by
// the agent driving the seat, not by the record.
type Player struct {
	Color Color
	Name  string
	Score int
}

// Game is the authoritative state of a match: the board, whose turn it is,
// the number of plies played and the outcome so far.
type Game struct {
	Board     *Board
	Players   [NumColors]Player
	Turn      Color
	MoveCount int
	History   []Action
	Result    Result
}

// NewGame starts a game on an empty board with Blue to move.
func NewGame(rules *Rules) *Game {
	return &Game{
		Board: NewBoard(rules),
		Players: [NumColors]Player{
			Blue:  {Color: Blue, Name: Blue.String()},
			Green: {Color: Green, Name: Green.String()},
		},
		Turn: Blue,
	}
}

func (g *Game) Rules() *Rules {
	return g.Board.rules
}

func (g *Game) Over() bool {
	return g.Result.Over
}

// Copy returns a snapshot that can be handed to an agent without exposing the
// authoritative board.
func (g *Game) Copy() *Game {
	c := *g
	c.Board = g.Board.Copy()
	c.History = append([]Action(nil), g.History...)
	return &c
}

// LegalActions lists the actions available to the side to move.
func (g *Game) LegalActions() []Action {
	if g.Over() {
		return nil
	}
	return GenerateActions(g.Board, g.Turn, g.MoveCount)
}

// Check verifies the turn-level rules for a: the right side moves and the
// opening rule is respected. Board-level legality is checked on execution.
func (g *Game) Check(a Action) error {
	if g.Over() {
		return ErrGameOver
	}
	opening := g.Rules().IsOpening(g.MoveCount)
	switch a := a.(type) {
	case Placement:
		want := g.Turn
		if opening {
			want = g.Turn.Opponent()
			if a.Type != FlatStone {
				return ErrOpeningPiece
			}
		}
		if a.Owner != want {
			return fmt.Errorf("%w: %s placed a %s piece", ErrWrongOwner, g.Turn, a.Owner)
		}
	case Move:
		if opening {
			return ErrOpeningMove
		}
		if a.Player != g.Turn {
			return fmt.Errorf("%w: %s moved for %s", ErrWrongTurn, g.Turn, a.Player)
		}
	case nil:
		return fmt.Errorf("%w: no action", ErrInvalidMove)
	}
	return nil
}

// Play executes a for the side to move, then advances the move count, judges
// the position and passes the turn. A rejected action leaves the game as it
// was.
func (g *Game) Play(a Action) error {
	if err := g.Check(a); err != nil {
		return err
	}
	if _, err := a.Execute(g.Board); err != nil {
		return err
	}
	g.History = append(g.History, a)
	g.MoveCount++
	g.Result = Judge(g.Board, g.Turn)
	if g.Result.Over {
		g.award()
	}
	g.Turn = g.Turn.Opponent()
	return nil
}

// PlayText parses s for the side to move and plays it.
func (g *Game) PlayText(s string) (Action, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	a, err := ParseAction(s, g.Turn, g.MoveCount, g.Rules())
	if err != nil {
		return nil, err
	}
	if err := g.Play(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Adjudicate ends an unfinished game on the flat count. It is used when the
// side to move has no legal action.
func (g *Game) Adjudicate() Result {
	if g.Over() {
		return g.Result
	}
	if winner, ok := FlatWinner(g.Board); ok {
		g.Result = Result{Over: true, Winner: winner, Reason: FlatWin}
		g.award()
	} else {
		g.Result = Result{Over: true, Reason: Draw}
	}
	return g.Result
}

// award credits the winner with the board area plus the pieces left in their
// reserve.
func (g *Game) award() {
	if g.Result.Reason != RoadWin && g.Result.Reason != FlatWin {
		return
	}
	w := g.Result.Winner
	size := g.Rules().Size
	g.Players[w].Score += size*size + g.Board.Reserve(w).Total()
}
