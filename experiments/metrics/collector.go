package metrics

import (
	"sync/atomic"
	"time"

	"tak/game"
)

type SearchMetric struct {
	Goroutines   int
	MaxDepth     int
	DepthReached int
	Candidates   int // Legal actions at the root
	Duration     time.Duration
	Nodes        int // Static evaluations performed by the search
	Prunes       int
	TimedOut     bool
	Score        float64 // Minimax value of the chosen action
}

type MoveMetric struct {
	Step   int
	Player game.Color
	Action string
	SearchMetric
}

type GameMetric struct {
	ID             string
	StartingPlayer game.Color
	Winner         string // Color name, "" for a draw or unfinished game
	Reason         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector accumulates the counters of a single search. Counters may be
// updated from several goroutines.
type Collector interface {
	Start(goroutines, maxDepth int)
	SetCandidates(n int)
	SetDepthReached(depth int)
	SetTimedOut()
	SetScore(score float64)
	AddNode()
	AddPrune()
	Nodes() int
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	maxDepth     int
	candidates   int
	startTime    time.Time
	depthReached atomic.Int32
	nodes        atomic.Int64
	prunes       atomic.Int64
	timedOut     atomic.Bool
	score        float64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, maxDepth int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxDepth = maxDepth
}

func (m *collector) SetCandidates(n int) {
	m.candidates = n
}

func (m *collector) SetDepthReached(depth int) {
	m.depthReached.Store(int32(depth))
}

func (m *collector) SetTimedOut() {
	m.timedOut.Store(true)
}

func (m *collector) SetScore(score float64) {
	m.score = score
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddPrune() {
	m.prunes.Add(1)
}

func (m *collector) Nodes() int {
	return int(m.nodes.Load())
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		MaxDepth:     m.maxDepth,
		DepthReached: int(m.depthReached.Load()),
		Candidates:   m.candidates,
		Duration:     time.Since(m.startTime),
		Nodes:        int(m.nodes.Load()),
		Prunes:       int(m.prunes.Load()),
		TimedOut:     m.timedOut.Load(),
		Score:        m.score,
	}
}
