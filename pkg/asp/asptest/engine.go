// Package asptest provides a scripted asp.Engine for exercising solve sessions without
// a solver installed.
package asptest

import (
	"context"
	"sync"
	"time"

	"github.com/limaJavier/lzcup/pkg/asp"
)

// Engine replays Models on every Start.
type Engine struct {
	Models []asp.Model
	// Delay is waited before each model is offered.
	Delay time.Duration
	// Hang keeps the stream open after the last model until Close, ignoring Cancel.
	Hang bool
	// Summary is reported by Close when the stream ended on its own.
	Summary  asp.Summary
	StartErr error
	CloseErr error

	mutex    sync.Mutex
	programs []string
	options  []asp.Options
	handles  []*Handle
}

func (engine *Engine) Start(ctx context.Context, program string, options asp.Options) (asp.Handle, error) {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	engine.programs = append(engine.programs, program)
	engine.options = append(engine.options, options)
	if engine.StartErr != nil {
		return nil, engine.StartErr
	}

	handle := &Handle{
		engine: engine,
		models: make(chan asp.Model),
		cancel: make(chan struct{}),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	engine.handles = append(engine.handles, handle)
	go handle.run()
	return handle, nil
}

func (engine *Engine) Programs() []string {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()
	return append([]string(nil), engine.programs...)
}

func (engine *Engine) Options() []asp.Options {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()
	return append([]asp.Options(nil), engine.options...)
}

func (engine *Engine) Handles() []*Handle {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()
	return append([]*Handle(nil), engine.handles...)
}

type Handle struct {
	engine *Engine
	models chan asp.Model
	cancel chan struct{}
	closed chan struct{}
	done   chan struct{}

	cancelOnce sync.Once
	closeOnce  sync.Once

	mutex     sync.Mutex
	delivered int
	cancels   int
	closes    int
}

func (handle *Handle) run() {
	defer close(handle.done)
	defer close(handle.models)

	for _, model := range handle.engine.Models {
		if handle.engine.Delay > 0 {
			select {
			case <-time.After(handle.engine.Delay):
			case <-handle.cancel:
				if !handle.engine.Hang {
					return
				}
			case <-handle.closed:
				return
			}
		}
		select {
		case handle.models <- model:
			handle.mutex.Lock()
			handle.delivered++
			handle.mutex.Unlock()
		case <-handle.closed:
			return
		}
	}

	if handle.engine.Hang {
		<-handle.closed
	}
}

func (handle *Handle) Models() <-chan asp.Model {
	return handle.models
}

func (handle *Handle) Cancel() {
	handle.mutex.Lock()
	handle.cancels++
	handle.mutex.Unlock()
	handle.cancelOnce.Do(func() { close(handle.cancel) })
}

func (handle *Handle) Close() (asp.Summary, error) {
	handle.mutex.Lock()
	handle.closes++
	handle.mutex.Unlock()
	handle.closeOnce.Do(func() { close(handle.closed) })
	<-handle.done

	summary := handle.engine.Summary
	select {
	case <-handle.cancel:
		summary.Interrupted = true
	default:
	}
	return summary, handle.engine.CloseErr
}

func (handle *Handle) Delivered() int {
	handle.mutex.Lock()
	defer handle.mutex.Unlock()
	return handle.delivered
}

func (handle *Handle) Cancels() int {
	handle.mutex.Lock()
	defer handle.mutex.Unlock()
	return handle.cancels
}

func (handle *Handle) Closes() int {
	handle.mutex.Lock()
	defer handle.mutex.Unlock()
	return handle.closes
}
