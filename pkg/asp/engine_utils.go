package asp

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/samber/lo"
)

var (
	optimumSummaryPattern     = regexp.MustCompile(`^Optimum\s*:\s*yes`)
	interruptedSummaryPattern = regexp.MustCompile(`^INTERRUPTED\s*:\s*1`)
)

// outputParser turns the solver's text output, fed line by line, into models.
type outputParser struct {
	pending     *Model
	expectAtoms bool
	proven      bool
	summary     Summary
}

// Feed consumes one output line and returns the models it completed.
func (parser *outputParser) Feed(line string) ([]Model, error) {
	line = strings.TrimRight(line, "\r")

	if parser.expectAtoms {
		parser.expectAtoms = false
		symbols, err := ParseSymbols(line)
		if err != nil {
			parser.pending = nil
			return nil, err
		}
		parser.pending.Symbols = symbols
		return nil, nil
	}

	switch {
	case strings.HasPrefix(line, "Answer:"):
		completed := parser.flush()
		number, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Answer:")))
		if err != nil {
			return completed, apperrors.Wrap(err, apperrors.CodeMalformedAtom, "unreadable answer number").WithField("line", line)
		}
		parser.pending = &Model{Number: number, Symbols: []Symbol{}, OptimalityProven: parser.proven}
		parser.expectAtoms = true
		parser.summary.Satisfiable = true
		return completed, nil

	case strings.HasPrefix(line, "Optimization:"):
		cost, err := parseCost(strings.TrimPrefix(line, "Optimization:"))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMalformedAtom, "unreadable cost vector").WithField("line", line)
		}
		if parser.pending != nil {
			parser.pending.Cost = cost
		}
		return parser.flush(), nil

	case line == "OPTIMUM FOUND":
		completed := parser.flush()
		parser.proven = true
		parser.summary.OptimalityProven = true
		parser.summary.Exhausted = true
		parser.summary.Satisfiable = true
		return completed, nil

	case line == "SATISFIABLE" || line == "UNKNOWN":
		return parser.flush(), nil

	case line == "UNSATISFIABLE":
		completed := parser.flush()
		parser.summary.Exhausted = true
		return completed, nil

	case optimumSummaryPattern.MatchString(strings.TrimSpace(line)):
		parser.summary.OptimalityProven = true
		return parser.flush(), nil

	case interruptedSummaryPattern.MatchString(strings.TrimSpace(line)):
		parser.summary.Interrupted = true
		return parser.flush(), nil
	}

	return nil, nil
}

// Finish flushes a model still pending at end of output.
func (parser *outputParser) Finish() []Model {
	parser.expectAtoms = false
	return parser.flush()
}

func (parser *outputParser) flush() []Model {
	if parser.pending == nil || parser.expectAtoms {
		return nil
	}
	model := *parser.pending
	parser.pending = nil
	return []Model{model}
}

func parseCost(text string) ([]int, error) {
	fields := strings.Fields(text)
	cost := make([]int, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		cost = append(cost, value)
	}
	return cost, nil
}

// Clingo exit code bits.
const (
	exitInterrupt = 1
	exitSat       = 10
	exitExhaust   = 20
	exitMemory    = 33
	exitError     = 65
	exitNoRun     = 128
)

// exitFailed reports whether a clingo exit code signals an engine failure rather
// than a search outcome.
func exitFailed(code int) bool {
	return code&exitError == exitError || code&exitNoRun != 0 || code&exitMemory == exitMemory
}

func applyExitCode(summary *Summary, code int) {
	if code < 0 {
		return
	}
	summary.Interrupted = summary.Interrupted || code&exitInterrupt != 0
	summary.Satisfiable = summary.Satisfiable || code&exitSat == exitSat
	summary.Exhausted = summary.Exhausted || code&exitExhaust == exitExhaust
}

// tail keeps the last lines of solver diagnostics for error reports.
func tail(text string, lines int) string {
	all := lo.Filter(strings.Split(strings.TrimSpace(text), "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	return strings.Join(all, " | ")
}
