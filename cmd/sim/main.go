// Command sim runs the Gao-Rexford route propagation simulation described
// in SPEC_FULL.md: load an AS-relationship graph and a scenario, propagate
// routes to a fixed point across UP/PEER/DOWN phases, and emit the
// resulting RIBs as CSV on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/Emeline-1/asrel-sim/internal/asgraph"
	"github.com/Emeline-1/asrel-sim/internal/bgp"
	"github.com/Emeline-1/asrel-sim/internal/config"
	"github.com/Emeline-1/asrel-sim/internal/emit"
	"github.com/Emeline-1/asrel-sim/internal/engine"
	"github.com/Emeline-1/asrel-sim/internal/logging"
	"github.com/Emeline-1/asrel-sim/internal/metrics"
	"github.com/Emeline-1/asrel-sim/internal/scenario"
	"go.uber.org/zap"
)

const maxThreads = 16

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := flag.NewFlagSet("sim", flag.ContinueOnError)
	configPath := cmd.String("config", "", "optional YAML config file, overlaid by SIM_* env vars")
	asRelFile := cmd.String("as-rel-file", "data/as-rel.txt.bz2", "bzip2-compressed CAIDA AS-relationship file")
	logLevel := cmd.String("log-level", "", "override the configured log level (debug|info|warn|error)")
	debugRanks := cmd.Bool("debug-ranks", false, "print an ASCII customer-cone rank tree to stderr before propagating")

	if err := cmd.Parse(args); err != nil {
		return 1
	}
	positional := cmd.Args()
	if len(positional) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sim <announcements.csv> <rov_asns.csv> [threads]")
		return 1
	}
	announcementsFile := positional[0]
	rovFile := positional[1]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sim: %v\n", err)
		return 1
	}
	cfg.AnnouncementsFile = announcementsFile
	cfg.ROVFile = rovFile
	asRelSet := false
	cmd.Visit(func(f *flag.Flag) {
		if f.Name == "as-rel-file" {
			asRelSet = true
		}
	})
	if asRelSet || cfg.ASRelFile == "" {
		cfg.ASRelFile = *asRelFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *debugRanks {
		cfg.DebugRanks = true
	}
	if len(positional) >= 3 {
		threads, err := strconv.Atoi(positional[2])
		if err != nil || threads <= 0 {
			fmt.Fprintf(os.Stderr, "sim: invalid threads argument %q\n", positional[2])
			return 1
		}
		cfg.Threads = threads
	}
	if cfg.Threads > maxThreads {
		cfg.Threads = maxThreads
	}
	if hw := runtime.GOMAXPROCS(0); cfg.Threads > hw {
		cfg.Threads = hw
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sim: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := execute(cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	return 0
}

func execute(cfg *config.Config, logger *zap.Logger) error {
	reg := metrics.Registry()

	logger.Info("loading AS relationship graph", zap.String("path", cfg.ASRelFile))
	g, err := asgraph.LoadCAIDA(cfg.ASRelFile)
	if err != nil {
		return fmt.Errorf("loading AS relationship graph: %w", err)
	}
	metrics.GraphNodesLoaded.Set(float64(g.NodeCount()))
	metrics.GraphEdgesLoaded.Set(float64(g.EdgeCount()))
	logger.Info("graph loaded", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))

	if g.DetectCycle() {
		return fmt.Errorf("provider graph contains a cycle")
	}

	ranks := g.FlattenRanks()
	if cfg.DebugRanks {
		asgraph.FprintRankTree(os.Stderr, g, ranks, len(ranks))
	}

	states := make([]*bgp.State, g.NodeCount())
	for i := range states {
		states[i] = bgp.NewState()
		states[i].OnROVDrop = func() { metrics.AnnouncementsDroppedROV.Inc() }
	}

	if err := scenario.LoadROVASNs(cfg.ROVFile, g, states); err != nil {
		return fmt.Errorf("loading ROV ASNs: %w", err)
	}

	dict := scenario.NewPrefixDict()
	if err := scenario.LoadAnnouncements(cfg.AnnouncementsFile, g, states, dict); err != nil {
		return fmt.Errorf("loading announcements: %w", err)
	}

	e := engine.New(g, states, ranks, cfg.Threads)
	e.Logger = logger
	e.Observe = func(phase string, d time.Duration) {
		metrics.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
		logger.Debug("phase complete", zap.String("phase", phase), zap.Duration("duration", d))
	}

	logger.Info("running propagation", zap.Int("threads", cfg.Threads))
	if err := e.Run(context.Background()); err != nil {
		return fmt.Errorf("running propagation: %w", err)
	}

	total := 0
	for _, s := range states {
		total += len(s.RIB)
	}
	metrics.RIBEntriesFinal.Set(float64(total))

	if err := emit.Write(os.Stdout, g, states, dict); err != nil {
		return fmt.Errorf("emitting results: %w", err)
	}

	if snap, err := metrics.Snapshot(reg); err != nil {
		logger.Warn("failed to render metrics snapshot", zap.Error(err))
	} else {
		logger.Info("run summary", zap.String("metrics", snap))
	}
	return nil
}
