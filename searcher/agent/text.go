package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tak/experiments/metrics"
	"tak/game"
)

// ErrInputClosed is returned by the text agent when its input ends.
var ErrInputClosed = errors.New("input closed")

type textAgent struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTextAgent returns an agent reading actions in text encoding, one per
// line, from r. Rejected lines are reported on w and the agent asks again.
func NewTextAgent(r io.Reader, w io.Writer) Agent {
	return &textAgent{in: bufio.NewScanner(r), out: w}
}

func (a *textAgent) FindMove(ctx context.Context, g *game.Game) (game.Action, metrics.SearchMetric, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, metrics.SearchMetric{}, err
		}
		fmt.Fprintf(a.out, "%s to move (ply %d)> ", g.Turn, g.MoveCount+1)
		if !a.in.Scan() {
			if err := a.in.Err(); err != nil {
				return nil, metrics.SearchMetric{}, err
			}
			return nil, metrics.SearchMetric{}, ErrInputClosed
		}
		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		action, err := parse(g, line)
		if err != nil {
			fmt.Fprintf(a.out, "rejected %q: %v\n", line, err)
			continue
		}
		return action, metrics.SearchMetric{}, nil
	}
}

// parse decodes line for the side to move and checks it against a copy of g.
func parse(g *game.Game, line string) (game.Action, error) {
	action, err := game.ParseAction(line, g.Turn, g.MoveCount, g.Rules())
	if err != nil {
		return nil, err
	}
	if err := g.Copy().Play(action); err != nil {
		return nil, err
	}
	return action, nil
}
