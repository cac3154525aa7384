package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tak/config"
	"tak/engine"
	"tak/experiments"
	"tak/experiments/metrics"
	"tak/gamemaster"
	"tak/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "selfplay", "One of selfplay, play, experiment, throughput, depth, serve")
	configPath := flag.String("config", "", "YAML config file")
	games := flag.Int("games", 0, "Games per match up (experiment modes)")
	addr := flag.String("addr", "", "Listen address (serve mode)")
	remote := flag.String("remote", "", "Game server URL searching for the AI side (play mode)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(cfg.Level())
	if *games > 0 {
		cfg.Experiment.Games = *games
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if (*mode == "throughput" || *mode == "depth") && len(cfg.Experiment.Agents) == 0 {
		log.Fatal().Msgf("%s needs a base agent in experiment.agents", *mode)
	}

	switch *mode {
	case "selfplay":
		err = runSelfPlay(ctx, cfg)
	case "play":
		err = runPlay(ctx, cfg, *remote)
	case "experiment":
		err = runExperiment(ctx, cfg)
	case "throughput":
		exp := experiments.ThroughputExperiment(cfg.Experiment.Agents[0], []int{1, 2, 4, 8}, cfg.Experiment.Games)
		exp.OutputDir = cfg.Experiment.OutputDir
		cfg.Experiment = exp
		err = runExperiment(ctx, cfg)
	case "depth":
		base := cfg.Experiment.Agents[0]
		base.ID = 0
		var exp config.Experiment
		exp, err = experiments.DepthExperiment(base, []int{1, 2, 3, 4}, cfg.Experiment.Games)
		if err == nil {
			exp.OutputDir = cfg.Experiment.OutputDir
			cfg.Experiment = exp
			err = runExperiment(ctx, cfg)
		}
	case "serve":
		err = serve(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func runSelfPlay(ctx context.Context, cfg config.Config) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	players := [2]agent.Agent{}
	for i := range players {
		players[i], err = experiments.NewAgent(cfg, metrics.AgentConfig{ID: i + 1, Kind: metrics.KindMinimax})
		if err != nil {
			return err
		}
	}
	e := engine.NewLocalEngine(rules, players[0], players[1], engine.WithMaxTurns(cfg.MaxTurns))
	winner, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(e.Game.Board)
	fmt.Printf("%s after %d plies in %s (winner %q)\n", e.Game.Result, gameMetric.TotalMoves, gameMetric.Duration, winner)
	return nil
}

// runPlay seats a human on Blue against the AI on Green.
func runPlay(ctx context.Context, cfg config.Config, remote string) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	ai, err := experiments.NewAgent(cfg, metrics.AgentConfig{ID: 1, Kind: metrics.KindMinimax})
	if err != nil {
		return err
	}
	if remote != "" {
		ai = agent.NewRemoteAgent(remote, &http.Client{Timeout: cfg.Search.Duration + 5*time.Second})
	}
	human := agent.NewTextAgent(os.Stdin, os.Stdout)
	e := engine.NewLocalEngine(rules, boardPrinter{human}, ai, engine.WithMaxTurns(cfg.MaxTurns))
	_, _, _, err = e.Run(ctx)
	if errors.Is(err, agent.ErrInputClosed) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(e.Game.Board)
	fmt.Println(e.Game.Result)
	return nil
}

func runExperiment(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	summary, err := experiments.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%d games: wins %v, %d draws, %d unfinished; records in %s\n",
		summary.Games, summary.Wins, summary.Draws, summary.Unfinished, summary.Dir)
	return nil
}

func serve(ctx context.Context, cfg config.Config) error {
	evaluate, err := cfg.Evaluator(cfg.Search.Evaluator)
	if err != nil {
		return err
	}
	minimax := experiments.NewMinimax(cfg.Search, metrics.AgentConfig{}, evaluate)
	manager := gamemaster.NewManager(minimax, cfg.BoardSize, gamemaster.WithRules(cfg.RulesFor))

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: gamemaster.NewRouter(manager),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Info().Msgf("game server listening on %s", cfg.ServerAddr)

	select {
	case <-ctx.Done():
	case err := <-serverErrCh:
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
