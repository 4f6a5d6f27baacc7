package asp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/limaJavier/lzcup/pkg/logger"
)

const maxAnswerLine = 16 * 1024 * 1024

// ClingoEngine runs the clingo executable on an encoding file plus facts fed on stdin,
// streaming models from its text output.
type ClingoEngine struct {
	path     string
	encoding string
	grace    time.Duration
}

func NewClingoEngine(path, encoding string, grace time.Duration) *ClingoEngine {
	return &ClingoEngine{path: path, encoding: encoding, grace: grace}
}

func (engine *ClingoEngine) Arguments(options Options) []string {
	args := []string{
		engine.encoding,
		"-", // facts come from standard input
		fmt.Sprintf("--parallel-mode=%d", options.Threads),
		"-c", fmt.Sprintf("rmax=%d", options.Rmax),
		"-c", fmt.Sprintf("m=%d", options.M),
		"-c", fmt.Sprintf("n=%d", options.Teams),
		"--configuration=" + options.Configuration,
		"--models=" + strconv.Itoa(options.Models),
	}
	if options.OptimumSearch {
		args = append(args, "--opt-mode=optN")
	}
	if options.UseHeuristic {
		args = append(args, "--heuristic=Domain")
	}
	return args
}

func (engine *ClingoEngine) Start(ctx context.Context, program string, options Options) (Handle, error) {
	if _, err := os.Stat(engine.encoding); err != nil {
		return nil, apperrors.SolverStartup(err, "encoding file is not readable").WithField("encoding", engine.encoding)
	}
	executable, err := exec.LookPath(engine.path)
	if err != nil {
		return nil, apperrors.SolverStartup(err, "clingo executable not found").WithField("clingo", engine.path)
	}

	cmd := exec.CommandContext(ctx, executable, engine.Arguments(options)...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = engine.grace
	cmd.Stdin = strings.NewReader(program) // Feed facts into clingo's standard input

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperrors.SolverStartup(err, "cannot attach to clingo output")
	}
	if err := cmd.Start(); err != nil {
		return nil, apperrors.SolverStartup(err, "cannot start clingo")
	}

	handle := &clingoHandle{
		cmd:    cmd,
		stderr: &stderr,
		grace:  engine.grace,
		models: make(chan Model),
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go handle.read(stdout)

	logger.Debug().Strs("args", cmd.Args).Int("pid", cmd.Process.Pid).Msg("clingo started")
	return handle, nil
}

type clingoHandle struct {
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	grace  time.Duration

	models chan Model
	stop   chan struct{}
	exited chan struct{}

	// Owned by the reader goroutine until exited is closed.
	parser   outputParser
	parseErr error
	waitErr  error

	mutex     sync.Mutex
	cancelled bool
	killed    bool

	closeOnce sync.Once
	summary   Summary
	closeErr  error
}

func (handle *clingoHandle) Models() <-chan Model {
	return handle.models
}

func (handle *clingoHandle) Cancel() {
	handle.mutex.Lock()
	defer handle.mutex.Unlock()
	if handle.cancelled {
		return
	}
	handle.cancelled = true

	select {
	case <-handle.exited:
		return
	default:
	}
	if err := handle.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Warn().Err(err).Msg("cannot interrupt clingo")
	}
}

func (handle *clingoHandle) Close() (Summary, error) {
	handle.closeOnce.Do(func() {
		close(handle.stop)
		handle.Cancel()

		select {
		case <-handle.exited:
		case <-time.After(handle.grace):
			handle.mutex.Lock()
			handle.killed = true
			handle.mutex.Unlock()
			if err := handle.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Warn().Err(err).Msg("cannot kill clingo")
			}
			<-handle.exited
		}

		handle.summary, handle.closeErr = handle.outcome()
	})
	return handle.summary, handle.closeErr
}

func (handle *clingoHandle) read(stdout io.Reader) {
	defer close(handle.exited)

	stopped := false
	deliver := func(models []Model) {
		for _, model := range models {
			if stopped {
				return
			}
			select {
			case handle.models <- model:
			case <-handle.stop:
				stopped = true
			}
		}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxAnswerLine)
	for scanner.Scan() {
		models, err := handle.parser.Feed(scanner.Text())
		if err != nil && handle.parseErr == nil {
			handle.parseErr = err
		}
		deliver(models)
	}
	if err := scanner.Err(); err != nil && handle.parseErr == nil {
		handle.parseErr = err
		// Keep the pipe drained so clingo can exit
		_, _ = io.Copy(io.Discard, stdout)
	}
	deliver(handle.parser.Finish())
	close(handle.models)

	handle.waitErr = handle.cmd.Wait()
}

func (handle *clingoHandle) outcome() (Summary, error) {
	summary := handle.parser.summary
	code := -1
	if handle.cmd.ProcessState != nil {
		code = handle.cmd.ProcessState.ExitCode()
	}
	applyExitCode(&summary, code)

	handle.mutex.Lock()
	stoppedByUs := handle.cancelled || handle.killed
	handle.mutex.Unlock()

	var exitErr *exec.ExitError
	switch {
	case handle.waitErr == nil:
	case errors.As(handle.waitErr, &exitErr) && code < 0 && stoppedByUs:
		summary.Interrupted = true
	case errors.As(handle.waitErr, &exitErr) && !exitFailed(code) && code >= 0:
		// 10/20/30 and their interrupted variants are search outcomes
	case errors.Is(handle.waitErr, exec.ErrWaitDelay),
		errors.Is(handle.waitErr, context.Canceled),
		errors.Is(handle.waitErr, context.DeadlineExceeded):
		summary.Interrupted = true
	default:
		return summary, apperrors.SolverStartup(handle.waitErr, tail(handle.stderr.String(), 5)).
			WithField("exit_code", code)
	}

	if handle.parseErr != nil {
		return summary, handle.parseErr
	}
	return summary, nil
}
