package cpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ezrec/intcode/io"
)

// Input supplies values to the IN instruction.
type Input interface {
	// Receive blocks until a value is available, or fails.
	Receive(ctx context.Context) (value int64, err error)
}

// Output accepts values from the OUT instruction.
type Output interface {
	Send(ctx context.Context, value int64) (err error)
}

// Cpu is the simulation context of a single Intcode processor.
type Cpu struct {
	Verbose bool         // Set to enable per-instruction logging.
	Logger  *slog.Logger // Destination of verbose logging, or slog.Default().

	Memory *Memory // Program and data memory.
	Ip     int64   // Current instruction pointer.
	Halted bool    // Set once a HALT has executed.
	Fault  error   // Set by the first failed Tick. Later Ticks return it.

	Ticks int // Instructions executed.

	Input  Input  // Source for IN. If nil, IN fails with io.ErrInputExhausted.
	Output Output // Sink for OUT. If nil, values are discarded.
}

// NewCpu creates a new CPU with a copy of image loaded at address 0, in a
// memory of the given capacity.
func NewCpu(image []int64, capacity int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(image, capacity),
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	code, err := cpu.FetchCode()
	current := "----"
	if err == nil {
		current = code.String()
	}

	text += fmt.Sprintf("%6s: %d\n", "ip", cpu.Ip)
	text += fmt.Sprintf("%6s: %v\n", "code", current)
	text += fmt.Sprintf("%6s: %v\n", "halted", cpu.Halted)
	if cpu.Fault != nil {
		text += fmt.Sprintf("%6s: %v\n", "fault", cpu.Fault)
	}
	text += fmt.Sprintf("%6s: %d\n", "ticks", cpu.Ticks)
	text += fmt.Sprintf("%6s: %d\n", "memory", cpu.Memory.Capacity())

	return
}

func (cpu *Cpu) logger() *slog.Logger {
	if cpu.Logger != nil {
		return cpu.Logger
	}
	return slog.Default()
}

// FetchCode fetches the instruction word at the IP.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	word, err := cpu.Memory.Read(cpu.Ip)
	if err != nil {
		return
	}

	code = Code(word)
	return
}

// Tick executes a single CPU instruction cycle.
// Returns ErrHalted once the CPU has halted. After any other error the CPU
// is faulted, and every later Tick returns that error without executing.
func (cpu *Cpu) Tick(ctx context.Context) (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Fault != nil {
		err = cpu.Fault
		return
	}

	defer func() {
		if err != nil {
			cpu.Fault = err
		}
	}()

	err = ctx.Err()
	if err != nil {
		return
	}

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(ctx, code)
	return
}

// Execute executes a single instruction word, as though it was located at
// the IP.
func (cpu *Cpu) Execute(ctx context.Context, code Code) (err error) {
	op, modes, err := code.Decode()
	if err != nil {
		return
	}

	if cpu.Verbose {
		cpu.logger().Debug("cpu: execute", "ip", cpu.Ip, "code", int64(code), "op", code.String())
	}

	next_ip := cpu.Ip + op.Length()

	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b int64
		a, err = cpu.getValue(1, modes[0])
		if err != nil {
			return
		}
		b, err = cpu.getValue(2, modes[1])
		if err != nil {
			return
		}
		err = cpu.setValue(3, doAlu(op, a, b))
		if err != nil {
			return
		}
	case OP_IN:
		if cpu.Input == nil {
			err = io.ErrInputExhausted
			return
		}
		var value int64
		value, err = cpu.Input.Receive(ctx)
		if err != nil {
			return
		}
		err = cpu.setValue(1, value)
		if err != nil {
			return
		}
	case OP_OUT:
		var value int64
		value, err = cpu.getValue(1, modes[0])
		if err != nil {
			return
		}
		if cpu.Verbose {
			cpu.logger().Debug("cpu: output", "ip", cpu.Ip, "value", value)
		}
		if cpu.Output != nil {
			err = cpu.Output.Send(ctx, value)
			if err != nil {
				return
			}
		}
	case OP_JT, OP_JF:
		var value, target int64
		value, err = cpu.getValue(1, modes[0])
		if err != nil {
			return
		}
		target, err = cpu.getValue(2, modes[1])
		if err != nil {
			return
		}
		if (value != 0) == (op == OP_JT) {
			if target < 0 || target >= int64(cpu.Memory.Capacity()) {
				err = ErrAddress{Addr: target, Capacity: cpu.Memory.Capacity()}
				return
			}
			next_ip = target
		}
	case OP_HALT:
		cpu.Halted = true
		next_ip = cpu.Ip
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// getValue resolves parameter n (1-based) of the current instruction.
func (cpu *Cpu) getValue(n int, mode Mode) (value int64, err error) {
	value, err = cpu.Memory.Read(cpu.Ip + int64(n))
	if err != nil {
		return
	}

	if mode == MODE_POSITION {
		value, err = cpu.Memory.Read(value)
	}

	return
}

// setValue writes to the address held in parameter n (1-based) of the
// current instruction.
func (cpu *Cpu) setValue(n int, value int64) (err error) {
	addr, err := cpu.Memory.Read(cpu.Ip + int64(n))
	if err != nil {
		return
	}

	err = cpu.Memory.Write(addr, value)
	return
}

// doAlu performs the requested arithmetic or comparison.
func doAlu(op Opcode, a int64, b int64) (output int64) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_MUL:
		output = a * b
	case OP_LT:
		if a < b {
			output = 1
		}
	case OP_EQ:
		if a == b {
			output = 1
		}
	}

	return
}
