package batch

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/limaJavier/lzcup/pkg/asp"
	"github.com/limaJavier/lzcup/pkg/config"
	"github.com/limaJavier/lzcup/pkg/session"
	"github.com/limaJavier/lzcup/pkg/sink"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

// NewDriver wires a clingo driver from the configuration. The returned closer releases
// the connections shared by every instance.
func NewDriver(ctx context.Context, cfg config.Config, params session.Params, runName string, render bool) (*Driver, io.Closer, error) {
	shared := make([]sink.Sink, 0, 1)
	if cfg.Output.PostgresDSN != "" {
		postgres, err := sink.OpenPostgres(ctx, cfg.Output.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		shared = append(shared, postgres)
	}

	driver := &Driver{
		Engine:      asp.NewClingoEngine(cfg.Solver.ClingoPath, cfg.Solver.EncodingPath, cfg.Solver.CancelGrace),
		Params:      params,
		RunName:     runName,
		InstanceDir: cfg.InstanceDir,
		Sinks:       OutputSinks(cfg.Output.Dir, cfg.Output.Snapshots, shared...),
		CancelGrace: cfg.Solver.CancelGrace,
	}
	if render {
		driver.Render = color.Output
		driver.Colorize = !color.NoColor
	}

	return driver, closerFunc(func() error { return sink.Multi(shared).Close() }), nil
}

// ExitCode maps a batch outcome to the process exit status.
func ExitCode(report Report, err error) int {
	switch {
	case err != nil:
		return 2
	case len(report.Failed()) > 0:
		return 1
	default:
		return 0
	}
}
