package main

import (
	"flag"
	"os"
	"strings"

	"github.com/limaJavier/lzcup/pkg/analysis"
	"github.com/limaJavier/lzcup/pkg/logger"
	"github.com/samber/lo"
)

func main() {
	inputPtr := flag.String("i", "results/results.csv", "Results log to analyze")
	runsPtr := flag.String("runs", "", "Comma-separated run names to analyze; all runs when empty")
	flag.Parse()

	log := logger.Component("analyze")

	runs := lo.Compact(lo.Map(strings.Split(*runsPtr, ","), func(run string, _ int) string { return strings.TrimSpace(run) }))

	rows, err := analysis.LoadFile(*inputPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load results")
	}

	if len(runs) > 0 {
		log.Info().Strs("runs", runs).Msg("analyzing specified runs")
	} else {
		log.Info().Msg("analyzing all runs")
	}
	analysis.Analyze(rows, runs).Print(os.Stdout)
}
