package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	KindMinimax   = "minimax"
	KindGreedy    = "greedy"
	KindRandom    = "random"
	KindExploring = "exploring" // Minimax with epsilon-random exploration
)

type AgentConfig struct {
	ID         int           `yaml:"id"`
	Kind       string        `yaml:"kind"`
	Depth      int           `yaml:"depth"`
	Duration   time.Duration `yaml:"duration"`
	Goroutines int           `yaml:"goroutines"`
	Iterative  bool          `yaml:"iterative"`
	Evaluator  string        `yaml:"evaluator"`
	Epsilon    float64       `yaml:"epsilon"`
	Seed       uint64        `yaml:"seed"`
}

func (c AgentConfig) Validate() error {
	switch c.Kind {
	case KindMinimax, KindExploring:
		if c.Depth < 0 || c.Goroutines < 0 || c.Duration < 0 {
			return fmt.Errorf("agent %d: negative search setting", c.ID)
		}
		if c.Kind == KindExploring && (c.Epsilon < 0 || c.Epsilon > 1) {
			return fmt.Errorf("agent %d: epsilon %v not in [0, 1]", c.ID, c.Epsilon)
		}
	case KindGreedy, KindRandom:
	default:
		return fmt.Errorf("agent %d: unknown kind %q", c.ID, c.Kind)
	}
	return nil
}

type GameRecord struct {
	Number int
	Blue   int // AgentConfig.ID
	Green  int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.Number
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> to hold the CSV files of one
// experiment run.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "depth", "duration", "goroutines", "iterative", "evaluator", "epsilon", "seed"}
	rows := make([][]string, len(configs))
	for i, config := range configs {
		rows[i] = []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Depth),
			config.Duration.String(),
			strconv.Itoa(config.Goroutines),
			strconv.FormatBool(config.Iterative),
			config.Evaluator,
			strconv.FormatFloat(config.Epsilon, 'f', -1, 64),
			strconv.FormatUint(config.Seed, 10),
		}
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"number", "id", "blue", "green", "starting_player", "winner", "reason", "total_moves", "start_time", "end_time", "duration"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.Number),
			record.ID,
			strconv.Itoa(record.Blue),
			strconv.Itoa(record.Green),
			record.StartingPlayer.String(),
			record.Winner,
			record.Reason,
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "goroutines", "max_depth", "depth_reached", "candidates", "nodes", "prunes", "score", "timed_out", "duration"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Action,
			strconv.Itoa(record.Goroutines),
			strconv.Itoa(record.MaxDepth),
			strconv.Itoa(record.DepthReached),
			strconv.Itoa(record.Candidates),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Prunes),
			strconv.FormatFloat(record.Score, 'f', 4, 64),
			strconv.FormatBool(record.TimedOut),
			record.Duration.String(),
		}
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
