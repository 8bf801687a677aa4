package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"shaftsim/src/config"
	"shaftsim/src/eventlog"
	"shaftsim/src/sim"
)

func main() {
	cfgPath := flag.String("config", "", "YAML building config (defaults to the built-in demo building)")
	envFile := flag.String("env", ".env", "env file with SHAFTSIM_* overrides")
	passengers := flag.Int("passengers", 30, "number of passengers to spawn")
	interval := flag.Duration("interval", 1500*time.Millisecond, "time between spawned passengers")
	seed := flag.Int64("seed", time.Now().UnixNano(), "trip generator seed")
	logDir := flag.String("logdir", "", "directory for per-shaft event logs")
	logFile := flag.String("logfile", "", "also write the process log to this file")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	closer, err := eventlog.InitLogger(level, *logFile)
	if err != nil {
		slog.Error("Logger setup failed", "err", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(*cfgPath, *envFile, *passengers, *interval, *seed, *logDir); err != nil {
		slog.Error("Simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath, envFile string, passengers int, interval time.Duration, seed int64, logDir string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&cfg, envFile); err != nil {
		return err
	}

	var sink eventlog.Sink = eventlog.NewSlogSink(slog.Default())
	if logDir != "" {
		labels := make([]string, len(cfg.Shafts))
		for i, s := range cfg.Shafts {
			labels[i] = s.Label
		}
		files, err := eventlog.OpenShaftFiles(logDir, labels)
		if err != nil {
			return err
		}
		defer files.Close()
		sink = eventlog.Multi(sink, files)
	}

	building, err := sim.NewBuilding(cfg, sink)
	if err != nil {
		return err
	}
	defer building.Close()
	gen, err := sim.NewGenerator(building.Topology(), seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- building.Run(ctx) }()

	start := time.Now()
	spawnTicker := time.NewTicker(interval)
	defer spawnTicker.Stop()
	spawned := 0
	slog.Info("Simulation started", "shafts", len(cfg.Shafts), "passengers", passengers, "seed", seed)

	for {
		select {
		case <-spawnTicker.C:
			if spawned < passengers {
				trip := gen.Next()
				if _, err := building.Call(ctx, trip.Origin, trip.Dest, trip.Name); err != nil {
					slog.Warn("Passenger rejected", "trip", trip, "err", err)
				}
				spawned++
				continue
			}
			if building.Settled() {
				slog.Info("All passengers delivered")
				cancel()
			}
		case err := <-runErr:
			cancel()
			sim.PrintReport(os.Stdout, building.Totals(), time.Since(start))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}
