package cpu

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted      = errors.New(f("halted"))
	ErrMemoryFault = errors.New(f("memory fault"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrOpcodeMode    = errors.New(f("mode invalid"))
	ErrOpcodeWidth   = errors.New(f("mode for missing parameter"))
	ErrOpcodeDest    = errors.New(f("immediate destination"))

	// Image errors
	ErrImageEmpty = errors.New(f("image empty"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrDataMissing        = errors.New(f(".data without values"))
)

// ErrAddress is a memory access outside of the memory's capacity.
type ErrAddress struct {
	Addr     int64
	Capacity int
}

func (err ErrAddress) Error() string {
	return f("address %d outside of [0, %d)", err.Addr, err.Capacity)
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrMemoryFault
}

// ErrOpcode is an instruction word that does not decode.
type ErrOpcode struct {
	Code Code
	Err  error
}

func (err ErrOpcode) Error() string {
	return f("bad opcode %d: %v", int64(err.Code), err.Err)
}

func (err ErrOpcode) Is(target error) (ok bool) {
	if target == ErrOpcodeInvalid {
		return true
	}
	_, ok = target.(ErrOpcode)
	return
}

func (err ErrOpcode) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("'%v' is not an instruction", string(em))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
