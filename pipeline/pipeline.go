// Package pipeline runs a chain of machines, each feeding its output to the
// next, optionally with the last feeding back to the first.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/io"
)

// Pipeline describes a chain of machines.
type Pipeline struct {
	Config   emulator.Config // Configuration of every machine.
	Feedback bool            // If set, the last machine feeds the first.

	images [][]int64
	phases []int64
}

// NewPipeline creates a pipeline of machines. Either one image is shared
// by every machine, or there is one image per machine. If phases are
// given, there is one per machine, and each is the first input of its
// machine.
func NewPipeline(images [][]int64, phases []int64) (p *Pipeline, err error) {
	switch {
	case len(images) == 0:
		err = ErrPipelineEmpty
		return
	case len(phases) == 0, len(images) == 1, len(images) == len(phases):
	default:
		err = ErrPhaseCount
		return
	}

	p = &Pipeline{
		images: images,
		phases: phases,
	}

	return
}

// Len returns the number of machines in the pipeline.
func (p *Pipeline) Len() int {
	return max(len(p.images), len(p.phases))
}

func (p *Pipeline) image(n int) []int64 {
	if len(p.images) == 1 {
		return p.images[0]
	}
	return p.images[n]
}

// Build creates the machines of the pipeline and links them together.
// The first machine's input starts with its phase then the input values.
func (p *Pipeline) Build(logger *slog.Logger, input ...int64) (machines []*emulator.Machine) {
	count := p.Len()
	machines = make([]*emulator.Machine, count)
	links := make([]*io.Receiver, count)

	for n := range count {
		cfg := p.Config
		cfg.Logger = logger.With("machine", n)
		links[n], machines[n] = cfg.Create(p.image(n))
		if len(p.phases) != 0 {
			machines[n].SetValues(p.phases[n])
		}
		if n == 0 && len(input) != 0 {
			machines[n].SetValues(input...)
		}
		if n > 0 {
			machines[n].SetInput(links[n-1])
		}
	}

	terminal := links[count-1]
	if p.Feedback {
		machines[0].SetInput(terminal)
	} else {
		terminal.Close()
	}

	return
}

// Run runs every machine of the pipeline until all have halted, and returns
// the last value output by the last machine. Every machine but the last
// runs on its own goroutine; the last runs on the caller's.
//
// A machine ending because its input link closed, or because a sibling
// faulted, ends cleanly. The first other fault cancels every machine and
// is returned as an ErrMachine.
func (p *Pipeline) Run(ctx context.Context, input ...int64) (result int64, err error) {
	logger := p.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run", uuid.NewString())

	machines := p.Build(logger, input...)
	last := len(machines) - 1

	logger.Debug("pipeline: start", "machines", len(machines), "feedback", p.Feedback)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	var once sync.Once
	var fault error
	report := func(index int, err error) error {
		if err == nil || errors.Is(err, io.ErrChannelClosed) {
			return nil
		}
		if gctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil
		}
		once.Do(func() {
			fault = &ErrMachine{Index: index, Err: err}
		})
		return err
	}

	for n, m := range machines[:last] {
		g.Go(func() error {
			return report(n, m.Execute(gctx))
		})
	}

	if report(last, machines[last].Execute(gctx)) != nil {
		cancel()
	}

	_ = g.Wait()

	if fault != nil {
		err = fault
		logger.Debug("pipeline: fault", "err", err)
		return
	}

	err = ctx.Err()
	if err != nil {
		return
	}

	result, ok := machines[last].Last()
	if !ok {
		err = ErrOutputEmpty
		return
	}

	logger.Debug("pipeline: done", "result", result)

	return
}
