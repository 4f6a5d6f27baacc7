// Package analysis compares the best scores of recorded runs against two fixed baseline series.
package analysis

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/samber/lo"
)

const (
	GurobiRun = "GUROBI"
	TabuRun   = "TABU"
)

// Baseline best scores for instances 1..52.
var (
	GurobiScores = []int{2087, 80, 58, 54, 52, 39, 38, 1036, 35, 28, 22, 20, 16, 1013, 13, 8, 7, 6, 5, 5, 2004, 4, 4, 4, 4, 4, 3, 3, 3, 2, 1001, 1, 1, 3000, 1000, 1000, 1000, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	TabuScores   = []int{2087, 81, 58, 54, 66, 39, 41, 1036, 39, 29, 32, 20, 18, 1015, 13, 8, 7, 6, 5, 5, 2004, 6, 4, 4, 4, 4, 8, 3, 3, 4, 1001, 1, 1, 3000, 1000, 1000, 1000, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

// Row is the part of a results record the analysis needs.
type Row struct {
	RunName  string
	Instance int
	Score    int
}

func LoadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.IOFailure(err, path)
	}
	defer file.Close()
	return Load(file)
}

// Load reads the run_name, instance and score columns of a results log, located by header.
func Load(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "cannot read header")
	}

	columns := make(map[string]int, 3)
	for _, name := range []string{"run_name", "instance", "score"} {
		index := slices.Index(header, name)
		if index < 0 {
			return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "missing column %q", name)
		}
		columns[name] = index
	}

	rows := make([]Row, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "cannot read row").WithField("line", line)
		}

		instance, err := strconv.Atoi(record[columns["instance"]])
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "instance is not an integer").WithField("line", line)
		}
		score, err := strconv.Atoi(record[columns["score"]])
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "score is not an integer").WithField("line", line)
		}
		rows = append(rows, Row{RunName: record[columns["run_name"]], Instance: instance, Score: score})
	}
	return rows, nil
}

func baselineRows(run string, scores []int) []Row {
	return lo.Map(scores, func(score int, i int) Row {
		return Row{RunName: run, Instance: i + 1, Score: score}
	})
}

// InstanceBest lists the runs tied for the best score of an instance.
type InstanceBest struct {
	Instance int
	Score    int
	Runs     []string
}

type RunRatio struct {
	Run   string
	Ratio float64
}

type RunCount struct {
	Run   string
	Count int
}

type Report struct {
	Runs      []string // baselines first, then by name
	Instances []int
	// Best score per instance and run
	Best map[int]map[string]int
	// Mean of best/GUROBI per run, ascending. Instances with a zero GUROBI score are skipped.
	RelativeToGurobi []RunRatio
	// Times each run reached the best score of an instance, ties included, descending
	BestRunCounts []RunCount
	BestRuns      []InstanceBest
}

// Analyze adds the baselines to rows and summarises them. A non-empty runs keeps only
// those runs besides the baselines.
func Analyze(rows []Row, runs []string) Report {
	all := slices.Concat(rows, baselineRows(GurobiRun, GurobiScores), baselineRows(TabuRun, TabuScores))
	if len(runs) > 0 {
		keep := append([]string{GurobiRun, TabuRun}, runs...)
		all = lo.Filter(all, func(row Row, _ int) bool { return slices.Contains(keep, row.RunName) })
	}

	best := make(map[int]map[string]int)
	for _, row := range all {
		if best[row.Instance] == nil {
			best[row.Instance] = make(map[string]int)
		}
		if current, ok := best[row.Instance][row.RunName]; !ok || row.Score < current {
			best[row.Instance][row.RunName] = row.Score
		}
	}

	report := Report{
		Runs:      orderRuns(lo.Uniq(lo.Map(all, func(row Row, _ int) string { return row.RunName }))),
		Instances: lo.Keys(best),
		Best:      best,
	}
	slices.Sort(report.Instances)

	report.RelativeToGurobi = relativeToGurobi(report)
	report.BestRuns = bestRuns(report)
	report.BestRunCounts = bestRunCounts(report.BestRuns)
	return report
}

func orderRuns(runs []string) []string {
	others := lo.Filter(runs, func(run string, _ int) bool { return run != GurobiRun && run != TabuRun })
	slices.Sort(others)

	ordered := make([]string, 0, len(runs))
	for _, baseline := range []string{GurobiRun, TabuRun} {
		if slices.Contains(runs, baseline) {
			ordered = append(ordered, baseline)
		}
	}
	return append(ordered, others...)
}

func relativeToGurobi(report Report) []RunRatio {
	ratios := make(map[string][]float64)
	for _, instance := range report.Instances {
		gurobi, ok := report.Best[instance][GurobiRun]
		if !ok || gurobi == 0 {
			continue
		}
		for run, score := range report.Best[instance] {
			ratios[run] = append(ratios[run], float64(score)/float64(gurobi))
		}
	}

	result := make([]RunRatio, 0, len(ratios))
	for run, values := range ratios {
		result = append(result, RunRatio{Run: run, Ratio: lo.Sum(values) / float64(len(values))})
	}
	slices.SortFunc(result, func(a, b RunRatio) int {
		if a.Ratio != b.Ratio {
			return cmp.Compare(a.Ratio, b.Ratio)
		}
		return strings.Compare(a.Run, b.Run)
	})
	return result
}

func bestRuns(report Report) []InstanceBest {
	return lo.Map(report.Instances, func(instance int, _ int) InstanceBest {
		scores := report.Best[instance]
		minimum := lo.Min(lo.Values(scores))
		runs := lo.Filter(lo.Keys(scores), func(run string, _ int) bool { return scores[run] == minimum })
		slices.Sort(runs)
		return InstanceBest{Instance: instance, Score: minimum, Runs: runs}
	})
}

func bestRunCounts(best []InstanceBest) []RunCount {
	counts := lo.CountValues(lo.FlatMap(best, func(b InstanceBest, _ int) []string { return b.Runs }))
	result := lo.MapToSlice(counts, func(run string, count int) RunCount { return RunCount{Run: run, Count: count} })
	slices.SortFunc(result, func(a, b RunCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Run, b.Run)
	})
	return result
}

// Print writes the summaries in a plain text layout.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "Average performance relative to GUROBI (lower is better, 1.0 means equal to GUROBI):")
	for _, ratio := range r.RelativeToGurobi {
		if math.IsNaN(ratio.Ratio) || math.IsInf(ratio.Ratio, 0) {
			continue
		}
		fmt.Fprintf(w, "  %-24s %.4f\n", ratio.Run, ratio.Ratio)
	}

	fmt.Fprintln(w, "\nNumber of times each run was among the best (including ties):")
	for _, count := range r.BestRunCounts {
		fmt.Fprintf(w, "  %-24s %d\n", count.Run, count.Count)
	}

	fmt.Fprintln(w, "\nBest run(s) for each instance:")
	for _, best := range r.BestRuns {
		fmt.Fprintf(w, "  Instance %d: %s (%d)\n", best.Instance, strings.Join(best.Runs, ", "), best.Score)
	}

	fmt.Fprintln(w, "\nData statistics:")
	fmt.Fprintf(w, "  Number of unique instances: %d\n", len(r.Instances))
	fmt.Fprintf(w, "  Number of unique runs: %d\n", len(r.Runs))
}
