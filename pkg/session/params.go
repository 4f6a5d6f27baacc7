package session

import (
	"flag"
	"slices"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
)

// Configurations are the clingo tuning profiles accepted by --configuration.
var Configurations = []string{"auto", "frumpy", "jumpy", "tweety", "handy", "crafty", "trendy", "many"}

// Params is the solver configuration shared by every instance of a run.
type Params struct {
	Rmax          int    `mapstructure:"rmax"`
	M             int    `mapstructure:"m"`
	Threads       int    `mapstructure:"threads"`
	Configuration string `mapstructure:"configuration"`
	UseHeuristic  bool   `mapstructure:"heuristic"`
	Timeout       int    `mapstructure:"timeout"` // seconds, 0 returns the first model
	OptimumSearch bool   `mapstructure:"optimumSearch"`
	Models        int    `mapstructure:"models"`
	CalendarPath  string `mapstructure:"calendar"`
}

func DefaultParams() Params {
	return Params{
		Rmax:          4,
		M:             60,
		Threads:       2,
		Configuration: "auto",
		Timeout:       60,
		OptimumSearch: true,
		Models:        1,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Threads < 1:
		return apperrors.InvalidConfig("threads", p.Threads, "must be at least 1")
	case p.Timeout < 0:
		return apperrors.InvalidConfig("timeout", p.Timeout, "must not be negative")
	case p.Rmax < 0:
		return apperrors.InvalidConfig("rmax", p.Rmax, "must not be negative")
	case p.M < 0:
		return apperrors.InvalidConfig("m", p.M, "must not be negative")
	case p.Models < 0:
		return apperrors.InvalidConfig("models", p.Models, "must not be negative")
	case !slices.Contains(Configurations, p.Configuration):
		return apperrors.InvalidConfig("configuration", p.Configuration, "unknown clingo configuration")
	}
	return nil
}

// RegisterFlags binds the params to command line flags, using the current values as defaults.
func (p *Params) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&p.Rmax, "r", p.Rmax, "Maximum gap of interest for close-game detection")
	fs.IntVar(&p.M, "m", p.M, "Minimum required separation between two games of a team")
	fs.IntVar(&p.Threads, "t", p.Threads, "Number of solver threads")
	fs.StringVar(&p.Configuration, "c", p.Configuration, "Solver configuration, one of: "+strings.Join(Configurations, ", "))
	fs.IntVar(&p.Timeout, "timeout", p.Timeout, "Timeout in seconds, 0 returns the first model")
	fs.BoolVar(&p.UseHeuristic, "heuristic", p.UseHeuristic, "Use the domain heuristic of the encoding")
	fs.BoolVar(&p.OptimumSearch, "optn", p.OptimumSearch, "Enumerate optimal models once optimality is proven")
	fs.IntVar(&p.Models, "models", p.Models, "Models to compute after optimisation, 0 for all")
	fs.StringVar(&p.CalendarPath, "calendar", p.CalendarPath, "Path to a tab-separated calendar of fixed games")
}
