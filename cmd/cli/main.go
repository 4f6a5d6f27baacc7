package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/limaJavier/lzcup/pkg/batch"
	"github.com/limaJavier/lzcup/pkg/config"
	"github.com/limaJavier/lzcup/pkg/logger"
	"github.com/limaJavier/lzcup/pkg/session"
)

func main() {
	// Define arguments
	params := session.DefaultParams()
	params.RegisterFlags(flag.CommandLine)
	outputDirPtr := flag.String("o", "", "Output directory for the results log and snapshots; overrides the configuration")
	runNamePtr := flag.String("n", "default_run", "Run label stored with every record")
	renderPtr := flag.Bool("render", false, "Print every model's schedule matrix")
	snapshotsPtr := flag.Bool("snapshots", false, "Write one snapshot file per model")
	configPathPtr := flag.String("config", "", "Path to config.json; defaults to the one next to the executable")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <instance>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(config.Locate(*configPathPtr))
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("cannot load configuration")
	}
	logger.Init(cfg.Log)
	log := logger.Component("cli")

	// Validate arguments
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	instance, err := strconv.Atoi(flag.Arg(0))
	if err != nil || instance < 1 {
		log.Fatal().Str("instance", flag.Arg(0)).Msg("instance must be a positive integer")
	}
	if err := params.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid parameters")
	}
	if *outputDirPtr != "" {
		cfg.Output.Dir = *outputDirPtr
	}
	cfg.Output.Snapshots = cfg.Output.Snapshots || *snapshotsPtr

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, closer, err := batch.NewDriver(ctx, cfg, params, *runNamePtr, *renderPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot prepare solve")
	}

	report, err := driver.Run(ctx, instance, instance)
	if closeErr := closer.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("cannot close shared sinks")
	}
	if err != nil {
		log.Error().Err(err).Msg("solve aborted")
	} else if len(report.Outcomes) == 1 && report.Outcomes[0].Err != nil {
		log.Error().Err(report.Outcomes[0].Err).Msg("solve failed")
	}

	stop()
	os.Exit(batch.ExitCode(report, err))
}
