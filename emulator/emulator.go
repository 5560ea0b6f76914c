// Package emulator aggregates a CPU with its input queue and recorded
// output into a Machine, the unit that drivers and pipelines run.
package emulator

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Config holds the settings used to build machines.
type Config struct {
	Verbose      bool         // If set, enables per-instruction logging.
	Logger       *slog.Logger // Logger for the machine, or slog.Default().
	Scale        int          // Memory capacity as a multiple of the image length.
	LinkCapacity int          // Values in flight on an output link.
}

// Machine state. CPU + input queue + recorded output.
type Machine struct {
	*cpu.Cpu // Reference to the CPU simulation.

	input  io.Queue
	output io.Output

	done chan struct{}
	err  error
}

// NewMachine creates a machine with the default configuration.
func NewMachine(image []int64) *Machine {
	return Config{}.NewMachine(image)
}

// Create creates a machine with the default configuration, whose output is
// also forwarded to the returned receiver.
func Create(image []int64) (rx *io.Receiver, m *Machine) {
	return Config{}.Create(image)
}

// NewMachine creates a machine with a copy of image loaded at address 0.
func (cfg Config) NewMachine(image []int64) (m *Machine) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m = &Machine{
		Cpu: cpu.NewCpu(image, cpu.MemoryCapacity(len(image), cfg.Scale)),
	}

	m.Cpu.Verbose = cfg.Verbose
	m.Cpu.Logger = logger
	m.Cpu.Input = &m.input
	m.Cpu.Output = &m.output

	return
}

// Create creates a machine whose output is also forwarded to the returned
// receiver.
func (cfg Config) Create(image []int64) (rx *io.Receiver, m *Machine) {
	m = cfg.NewMachine(image)
	m.output.Sender, rx = io.NewLink(cfg.LinkCapacity)
	return
}

// SetInput adds a source to the back of the input queue.
func (m *Machine) SetInput(src io.Source) {
	m.input.Push(src)
}

// SetText adds whitespace separated text to the back of the input queue.
func (m *Machine) SetText(text string) {
	m.SetInput(io.NewText(text))
}

// SetValues adds values to the back of the input queue.
func (m *Machine) SetValues(values ...int64) {
	m.SetInput(io.NewValues(values...))
}

// Tick performs a single instruction of the machine.
// done is set once the machine has halted. The machine is closed when it
// halts or faults; a faulted machine never executes again, and every later
// Tick returns the fault.
func (m *Machine) Tick(ctx context.Context) (done bool, err error) {
	if m.Cpu.Halted {
		done = true
		return
	}

	ip := m.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, Err: err}
		}
		if done || err != nil {
			m.Close()
		}
	}()

	err = m.Cpu.Tick(ctx)
	if err != nil {
		return
	}

	done = m.Cpu.Halted
	return
}

// Execute runs the machine on the calling goroutine until it halts, faults,
// or ctx is done. Either way the machine is closed afterwards.
func (m *Machine) Execute(ctx context.Context) (err error) {
	defer m.Close()

	for {
		var done bool
		done, err = m.Tick(ctx)
		if err != nil {
			m.Cpu.Logger.Debug("machine: fault", "ip", m.Cpu.Ip, "ticks", m.Cpu.Ticks, "err", err)
			return
		}
		if done {
			m.Cpu.Logger.Debug("machine: halted", "ticks", m.Cpu.Ticks, "outputs", len(m.output.Values))
			return
		}
	}
}

// Start runs Execute on a new goroutine. Use Wait for the result.
// A machine may only be started once.
func (m *Machine) Start(ctx context.Context) (err error) {
	if m.done != nil {
		err = ErrStarted
		return
	}

	done := make(chan struct{})
	m.done = done

	go func() {
		defer close(done)
		m.err = m.Execute(ctx)
	}()

	return
}

// Wait blocks until a machine begun by Start has finished, and returns
// the result of its Execute.
func (m *Machine) Wait() (err error) {
	if m.done == nil {
		err = ErrNotStarted
		return
	}

	<-m.done
	err = m.err
	return
}

// Output returns a copy of every value the machine has output.
func (m *Machine) Output() []int64 {
	return slices.Clone(m.output.Values)
}

// Last returns the most recent value the machine has output.
func (m *Machine) Last() (value int64, ok bool) {
	return m.output.Last()
}

// Peek reads a memory cell.
func (m *Machine) Peek(addr int64) (value int64, err error) {
	return m.Cpu.Memory.Read(addr)
}

// Poke writes a memory cell.
func (m *Machine) Poke(addr int64, value int64) (err error) {
	return m.Cpu.Memory.Write(addr, value)
}

// SetNoun writes the noun parameter, memory cell 1.
func (m *Machine) SetNoun(value int64) (err error) {
	return m.Poke(1, value)
}

// SetVerb writes the verb parameter, memory cell 2.
func (m *Machine) SetVerb(value int64) (err error) {
	return m.Poke(2, value)
}

// Memory returns a copy of the machine's memory, through the highest cell
// loaded or written.
func (m *Machine) Memory() []int64 {
	return m.Cpu.Memory.Image()
}

// Close closes the output link and drops every input source. Neighbours
// reading from this machine see end of stream, and values sent to it are
// discarded.
func (m *Machine) Close() {
	m.output.Close()
	m.input.Close()
}
