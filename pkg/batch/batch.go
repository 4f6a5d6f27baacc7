// Package batch solves a range of instances one after another under one run label.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/limaJavier/lzcup/pkg/asp"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/limaJavier/lzcup/pkg/logger"
	"github.com/limaJavier/lzcup/pkg/model"
	"github.com/limaJavier/lzcup/pkg/session"
	"github.com/limaJavier/lzcup/pkg/sink"
	"github.com/samber/lo"
)

// SinkFactory opens the sinks of one instance. The driver closes them after its session.
type SinkFactory func(ctx context.Context, instance int) (sink.Sink, error)

// OutputSinks appends to <dir>/results.csv and, with snapshots, writes per-model files under
// <dir>/<instance>/. Shared sinks are reused for every instance and never closed by the driver.
func OutputSinks(dir string, snapshots bool, shared ...sink.Sink) SinkFactory {
	return func(_ context.Context, _ int) (sink.Sink, error) {
		csvSink, err := sink.NewCSVSink(filepath.Join(dir, "results.csv"))
		if err != nil {
			return nil, err
		}

		sinks := sink.Multi{csvSink}
		if snapshots {
			sinks = append(sinks, sink.NewSnapshotSink(dir))
		}
		for _, s := range shared {
			sinks = append(sinks, keepOpen{s})
		}
		return sinks, nil
	}
}

type keepOpen struct {
	sink.Sink
}

func (keepOpen) Close() error {
	return nil
}

// Driver runs one session per instance with the same parameters.
type Driver struct {
	Engine      asp.Engine
	Params      session.Params
	RunName     string
	InstanceDir string
	Sinks       SinkFactory
	Render      io.Writer // nil disables rendering
	Colorize    bool
	CancelGrace time.Duration
}

// Outcome is what happened to one instance.
type Outcome struct {
	Instance int
	Result   session.Result
	Err      error
}

// Solved reports whether at least one model was recorded.
func (o Outcome) Solved() bool {
	return len(o.Result.Records) > 0
}

type Report struct {
	RunName  string
	Outcomes []Outcome
}

func (r Report) Solved() int {
	return lo.CountBy(r.Outcomes, func(o Outcome) bool { return o.Solved() })
}

// Failed lists the instances whose session ended with an error other than a missing model.
func (r Report) Failed() []int {
	failed := lo.Filter(r.Outcomes, func(o Outcome, _ int) bool {
		return o.Err != nil && !apperrors.Is(o.Err, apperrors.CodeNoModelFound)
	})
	return lo.Map(failed, func(o Outcome, _ int) int { return o.Instance })
}

// Run solves instances lower..upper inclusive. Instance-level failures are logged and kept in
// the report. Persistence failures and caller cancellation stop the batch and are returned.
func (d *Driver) Run(ctx context.Context, lower, upper int) (Report, error) {
	report := Report{RunName: d.RunName, Outcomes: make([]Outcome, 0)}
	if lower > upper {
		return report, apperrors.InvalidConfig("range", fmt.Sprintf("%d-%d", lower, upper), "lower bound above upper bound")
	}
	if err := d.Params.Validate(); err != nil {
		return report, apperrors.Annotate(err, map[string]any{"run": d.RunName})
	}

	log := logger.Component("batch").With().Str("run", d.RunName).Logger()
	log.Info().Int("lower", lower).Int("upper", upper).Str("instances", d.InstanceDir).Msg("batch started")

	for instance := lower; instance <= upper; instance++ {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("instance", instance).Msg("batch cancelled")
			return report, err
		}

		outcome := d.solve(ctx, instance)
		report.Outcomes = append(report.Outcomes, outcome)

		switch {
		case outcome.Err == nil:
			best, _ := outcome.Result.Best()
			log.Info().Int("instance", instance).Int("models", len(outcome.Result.Records)).Int("score", best.Score).Msg("instance solved")
		case apperrors.Is(outcome.Err, apperrors.CodeNoModelFound):
			log.Warn().Err(outcome.Err).Int("instance", instance).Msg("no model found")
		case apperrors.Is(outcome.Err, apperrors.CodeIOFailure):
			log.Error().Err(outcome.Err).Int("instance", instance).Msg("result persistence failed, stopping batch")
			return report, outcome.Err
		case errors.Is(outcome.Err, context.Canceled) || errors.Is(outcome.Err, context.DeadlineExceeded):
			log.Warn().Err(outcome.Err).Int("instance", instance).Msg("batch cancelled")
			return report, outcome.Err
		default:
			log.Error().Err(outcome.Err).Int("instance", instance).Msg("instance failed")
		}
	}

	log.Info().Int("solved", report.Solved()).Ints("failed", report.Failed()).Msg("batch completed")
	return report, nil
}

func (d *Driver) solve(ctx context.Context, instanceID int) Outcome {
	fields := map[string]any{"instance": instanceID, "run": d.RunName}
	fail := func(err error) Outcome {
		return Outcome{Instance: instanceID, Err: apperrors.Annotate(err, fields)}
	}

	instance, err := model.InstanceFromFile(model.InstancePath(d.InstanceDir, instanceID))
	if err != nil {
		return fail(err)
	}

	var seed *model.CalendarSeed
	if path := d.Params.CalendarPath; path != "" {
		calendar, err := model.CalendarFromFile(path, instance.Teams)
		if err != nil {
			return fail(err)
		}
		if err := calendar.Validate(instance, path); err != nil {
			return fail(err)
		}
		seed = &calendar
	}

	output, err := d.Sinks(ctx, instanceID)
	if err != nil {
		if !apperrors.Is(err, apperrors.CodeIOFailure) {
			err = apperrors.IOFailure(err, "sink")
		}
		return fail(err)
	}

	spec := session.Spec{
		InstanceID: instanceID,
		RunName:    d.RunName,
		Instance:   instance,
		Seed:       seed,
		Params:     d.Params,
	}
	result, err := session.New(d.Engine, output, spec, d.sessionOptions()...).Run(ctx)

	if closeErr := output.Close(); closeErr != nil {
		logger.Warn().Err(closeErr).Int("instance", instanceID).Msg("cannot close sinks")
		if err == nil {
			err = apperrors.IOFailure(closeErr, "sink")
		}
	}
	return Outcome{Instance: instanceID, Result: result, Err: apperrors.Annotate(err, fields)}
}

func (d *Driver) sessionOptions() []session.Option {
	options := make([]session.Option, 0, 2)
	if d.Render != nil {
		options = append(options, session.WithRender(d.Render, d.Colorize))
	}
	if d.CancelGrace > 0 {
		options = append(options, session.WithCancelGrace(d.CancelGrace))
	}
	return options
}
