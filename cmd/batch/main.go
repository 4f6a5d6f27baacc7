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
	params := session.DefaultParams()
	params.RegisterFlags(flag.CommandLine)
	outputDirPtr := flag.String("o", "", "Output directory for the results log and snapshots; overrides the configuration")
	runNamePtr := flag.String("n", "", "Run label stored with every record (required)")
	renderPtr := flag.Bool("render", false, "Print every model's schedule matrix")
	snapshotsPtr := flag.Bool("snapshots", false, "Write one snapshot file per model")
	configPathPtr := flag.String("config", "", "Path to config.json; defaults to the one next to the executable")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -n <run> [flags] <lower> <upper>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(config.Locate(*configPathPtr))
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("cannot load configuration")
	}
	logger.Init(cfg.Log)
	log := logger.Component("batch")

	lower, upper, err := parseRange(flag.Args())
	if err != nil {
		flag.Usage()
		log.Fatal().Err(err).Msg("invalid instance range")
	}
	if *runNamePtr == "" {
		flag.Usage()
		log.Fatal().Msg("a run name must be specified")
	}
	if *outputDirPtr != "" {
		cfg.Output.Dir = *outputDirPtr
	}
	cfg.Output.Snapshots = cfg.Output.Snapshots || *snapshotsPtr

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, closer, err := batch.NewDriver(ctx, cfg, params, *runNamePtr, *renderPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot prepare batch")
	}

	fmt.Printf("Batch run: %s\n", *runNamePtr)
	fmt.Printf("Instances: %d-%d\n", lower, upper)
	fmt.Printf("Output directory: %s\n\n", cfg.Output.Dir)

	report, err := driver.Run(ctx, lower, upper)
	if closeErr := closer.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("cannot close shared sinks")
	}
	if err != nil {
		log.Error().Err(err).Msg("batch aborted")
	} else {
		fmt.Printf("Batch run %s completed: %d/%d instances solved\n", *runNamePtr, report.Solved(), len(report.Outcomes))
	}

	stop()
	os.Exit(batch.ExitCode(report, err))
}

func parseRange(args []string) (lower, upper int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected <lower> <upper>, got %d arguments", len(args))
	}
	if lower, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("lower bound %q is not an integer", args[0])
	}
	if upper, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("upper bound %q is not an integer", args[1])
	}
	if lower < 1 || lower > upper {
		return 0, 0, fmt.Errorf("range %d-%d must satisfy 1 <= lower <= upper", lower, upper)
	}
	return lower, upper, nil
}
