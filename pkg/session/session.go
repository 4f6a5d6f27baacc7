// Package session drives one bounded-time solve: it submits the facts of an instance,
// turns every streamed model into a record and stops the engine on timeout or cancellation.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/lzcup/pkg/asp"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/limaJavier/lzcup/pkg/logger"
	"github.com/limaJavier/lzcup/pkg/model"
	"github.com/limaJavier/lzcup/pkg/sink"
)

// DefaultCancelGrace bounds the wait for the engine to stop once cancellation is requested.
const DefaultCancelGrace = 5 * time.Second

// writeTimeout bounds one sink write. Writes outlive caller cancellation so late models persist.
const writeTimeout = 10 * time.Second

// Spec is what one session solves.
type Spec struct {
	InstanceID int
	RunName    string
	Instance   model.Instance
	Seed       *model.CalendarSeed
	Params     Params
}

// Result summarises a finished session.
type Result struct {
	SessionID        uuid.UUID
	State            State // terminal state reached before closing
	Records          []sink.Record
	Discarded        int
	OptimalityProven bool
	Summary          asp.Summary
	Elapsed          time.Duration
}

// Best returns the last, hence best, record.
func (r Result) Best() (sink.Record, bool) {
	if len(r.Records) == 0 {
		return sink.Record{}, false
	}
	return r.Records[len(r.Records)-1], true
}

type Option func(*Session)

// WithRender prints every processed model to w.
func WithRender(w io.Writer, colorize bool) Option {
	return func(s *Session) {
		s.render = w
		s.colorize = colorize
	}
}

// WithCancelGrace bounds the wait for the engine to stop after cancellation.
func WithCancelGrace(grace time.Duration) Option {
	return func(s *Session) {
		s.grace = grace
	}
}

// WithTimeout replaces the whole-second timeout of the params. Zero keeps first-model mode.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// Session is single use: Run may be called once.
type Session struct {
	engine asp.Engine
	sink   sink.Sink
	spec   Spec

	timeout  time.Duration
	grace    time.Duration
	render   io.Writer
	colorize bool

	id        uuid.UUID
	timestamp string
	log       *logger.SessionLogger
	state     State
	start     time.Time

	// per-session counters
	lastModel int
	lastScore int
	records   []sink.Record
	discarded int
}

func New(engine asp.Engine, output sink.Sink, spec Spec, options ...Option) *Session {
	id := uuid.New()
	s := &Session{
		engine:    engine,
		sink:      output,
		spec:      spec,
		timeout:   time.Duration(spec.Params.Timeout) * time.Second,
		grace:     DefaultCancelGrace,
		id:        id,
		timestamp: time.Now().Format(sink.TimestampLayout),
		log:       logger.NewSessionLogger(id.String(), spec.RunName, spec.InstanceID),
		state:     Idle,
		lastModel: -1,
		lastScore: -1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

// Run solves the instance. The engine handle is closed on every return path.
// A session that ends without models returns the result with a CodeNoModelFound error.
func (s *Session) Run(ctx context.Context) (Result, error) {
	result, err := s.run(ctx)
	s.transition(Closed)
	result.SessionID = s.id
	result.Records = s.records
	result.Discarded = s.discarded
	if !s.start.IsZero() {
		result.Elapsed = time.Since(s.start)
	}
	s.log.Finish(result.State.String(), len(s.records), result.OptimalityProven, result.Elapsed)
	return result, s.annotate(err)
}

func (s *Session) run(ctx context.Context) (Result, error) {
	if err := s.spec.Params.Validate(); err != nil {
		return Result{}, err
	}

	facts := model.CompileFacts(s.spec.Instance, s.spec.Seed)
	bound, err := model.SchedulableBound(s.spec.Instance)
	if err != nil {
		s.log.Logger().Debug().Err(err).Msg("schedulable bound unavailable")
		bound = -1
	}

	s.start = time.Now()
	s.transition(Submitted)
	s.log.Start(s.spec.Instance.Days, s.spec.Instance.Teams, len(facts), bound, s.timeout)

	handle, err := s.engine.Start(ctx, facts.Program(), s.options())
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeUnknown {
			err = apperrors.SolverStartup(err, "engine start")
		}
		return Result{}, err
	}
	s.transition(Solving)

	var (
		summary  asp.Summary
		closeErr error
		closed   bool
	)
	closeHandle := func() {
		if !closed {
			closed = true
			summary, closeErr = handle.Close()
		}
	}
	defer closeHandle()

	terminal, err := s.stream(ctx, handle)
	closeHandle()
	if err != nil {
		return Result{State: s.state, Summary: summary}, err
	}

	// The engine may finish the search before it sees the cancellation
	if terminal == TimedOut && summary.Exhausted && !summary.Interrupted {
		terminal = Exhausted
	}
	s.transition(terminal)

	result := Result{State: terminal, Summary: summary}
	if best, ok := result.Best(); ok && best.Optimal {
		result.OptimalityProven = true
	}
	result.OptimalityProven = result.OptimalityProven || (summary.OptimalityProven && len(s.records) > 0)

	if closeErr != nil {
		if apperrors.GetCode(closeErr) == apperrors.CodeUnknown {
			closeErr = apperrors.SolverStartup(closeErr, "engine close")
		}
		return result, closeErr
	}
	if len(s.records) == 0 {
		if terminal == Cancelled {
			return result, ctx.Err()
		}
		return result, apperrors.NoModelFound(fmt.Sprintf("%s without models", terminal))
	}
	return result, nil
}

// stream is the only wait of the session. It returns the terminal state once the model
// stream ends or the grace period after cancellation expires.
func (s *Session) stream(ctx context.Context, handle asp.Handle) (State, error) {
	models := handle.Models()
	done := ctx.Done()
	firstModelOnly := s.timeout <= 0

	// In first-model mode the engine gets one grace period to produce its first model.
	wait := s.timeout
	if firstModelOnly {
		wait = s.grace
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	deadline := timer.C

	var grace <-chan time.Time
	terminal := Exhausted
	cancel := func(state State) {
		terminal = state
		handle.Cancel()
		if grace == nil {
			timer := time.NewTimer(s.grace)
			grace = timer.C
		}
	}

	for {
		select {
		case m, ok := <-models:
			if !ok {
				return terminal, nil
			}
			if s.state == Solving {
				s.transition(Streaming)
			}
			if firstModelOnly && len(s.records) > 0 {
				s.discard(m.Number, "first model already recorded")
				continue
			}
			if err := s.process(ctx, m); err != nil {
				handle.Cancel()
				return s.state, err
			}
			if firstModelOnly && len(s.records) == 1 {
				deadline = nil
				cancel(TimedOut)
			}

		case <-deadline:
			deadline = nil
			s.log.Logger().Info().Dur("timeout", wait).Bool("first_model_only", firstModelOnly).Msg("timeout reached, cancelling solve")
			cancel(TimedOut)

		case <-done:
			done = nil
			s.log.Logger().Info().Err(ctx.Err()).Msg("solve cancelled by caller")
			cancel(Cancelled)

		case <-grace:
			s.log.Logger().Warn().Dur("grace", s.grace).Msg("engine ignored cancellation, closing it")
			return terminal, nil
		}
	}
}

// process is the per-model checkpoint. The engine is blocked on the next send until it returns.
func (s *Session) process(ctx context.Context, m asp.Model) error {
	if m.Number <= s.lastModel {
		s.discard(m.Number, fmt.Sprintf("model number not above %d", s.lastModel))
		return nil
	}

	record, matrix, closeGames, err := s.record(m)
	if err != nil {
		return apperrors.Annotate(err, map[string]any{"model": m.Number})
	}

	if err := s.write(ctx, record); err != nil {
		return err
	}

	if s.lastScore >= 0 && record.Score > s.lastScore {
		s.log.Logger().Warn().Int("model", m.Number).Int("score", record.Score).Int("previous", s.lastScore).Msg("score increased")
	}
	s.lastModel = m.Number
	s.lastScore = record.Score
	s.records = append(s.records, record)

	s.log.Model(m.Number, time.Duration(record.Time*float64(time.Second)), record.Score, m.Cost, record.Optimal)
	if s.render != nil {
		s.renderRecord(record, m.Cost, matrix, closeGames)
	}
	return nil
}

// write retries every failed sink once before giving up.
func (s *Session) write(ctx context.Context, record sink.Record) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	err := sink.WriteRetry(ctx, s.sink, record, func(err error) {
		s.log.Logger().Warn().Err(err).Int("model", record.Model).Msg("record write failed, retrying")
	})
	if err == nil {
		return nil
	}
	if !apperrors.Is(err, apperrors.CodeIOFailure) {
		err = apperrors.IOFailure(err, "sink")
	}
	return apperrors.Annotate(err, map[string]any{"model": record.Model})
}

func (s *Session) discard(number int, reason string) {
	s.discarded++
	s.log.Discarded(number, reason)
}

func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	s.log.Transition(s.state.String(), to.String())
	s.state = to
}

func (s *Session) annotate(err error) error {
	return apperrors.Annotate(err, map[string]any{
		"instance": s.spec.InstanceID,
		"run":      s.spec.RunName,
	})
}
