package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the operation selected by the two low decimal digits of a word.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JT   = Opcode(5)  // jt
	OP_JF   = Opcode(6)  // jf
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_HALT = Opcode(99) // halt
)

// Mode is the addressing mode of a single parameter.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // position
	MODE_IMMEDIATE = Mode(1) // immediate
)

const (
	PARAM_LIMIT = 3   // Most parameters taken by any opcode.
	OPCODE_BASE = 100 // Modes start at this digit weight.
)

// opcodeParams maps each opcode to its parameter count and the index of
// its destination parameter, or -1 if nothing is written.
var opcodeParams = map[Opcode](struct {
	count int
	dest  int
}){
	OP_ADD:  {3, 2},
	OP_MUL:  {3, 2},
	OP_IN:   {1, 0},
	OP_OUT:  {1, -1},
	OP_JT:   {2, -1},
	OP_JF:   {2, -1},
	OP_LT:   {3, 2},
	OP_EQ:   {3, 2},
	OP_HALT: {0, -1},
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() (ok bool) {
	_, ok = opcodeParams[op]
	return
}

// Params returns the number of parameters, and the index of the parameter
// that is written to (or -1 if none is).
func (op Opcode) Params() (count int, dest int) {
	params, ok := opcodeParams[op]
	if !ok {
		return 0, -1
	}
	return params.count, params.dest
}

// Length returns the number of words occupied by the instruction.
func (op Opcode) Length() int64 {
	count, _ := op.Params()
	return int64(count) + 1
}

// Code is a raw instruction word.
type Code int64

// MakeCode encodes an opcode and the modes of its leading parameters.
// Omitted modes are positional.
func MakeCode(op Opcode, modes ...Mode) Code {
	word := int64(op)
	weight := int64(OPCODE_BASE)
	for _, mode := range modes {
		word += int64(mode) * weight
		weight *= 10
	}
	return Code(word)
}

// Decode splits the word into its opcode and the mode of each parameter.
// Digits are only examined up to the opcode's parameter count; any
// further non-zero digit, a digit other than 0 or 1, or an immediate
// destination makes the word invalid.
func (code Code) Decode() (op Opcode, modes [PARAM_LIMIT]Mode, err error) {
	defer func() {
		if err != nil {
			err = ErrOpcode{Code: code, Err: err}
		}
	}()

	word := int64(code)
	if word < 0 {
		err = ErrOpcodeInvalid
		return
	}

	op = Opcode(word % OPCODE_BASE)
	if !op.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	count, dest := op.Params()
	rest := word / OPCODE_BASE
	for n := range PARAM_LIMIT {
		digit := rest % 10
		rest /= 10
		if digit == 0 {
			continue
		}
		if n >= count {
			err = ErrOpcodeWidth
			return
		}
		if Mode(digit) != MODE_IMMEDIATE {
			err = ErrOpcodeMode
			return
		}
		if n == dest {
			err = ErrOpcodeDest
			return
		}
		modes[n] = MODE_IMMEDIATE
	}

	if rest != 0 {
		err = ErrOpcodeWidth
		return
	}

	return
}

// String returns the mnemonic and parameter modes of the word, or the
// number itself if it does not decode.
func (code Code) String() string {
	op, modes, err := code.Decode()
	if err != nil {
		return fmt.Sprintf("%d", int64(code))
	}

	count, _ := op.Params()
	words := []string{op.String()}
	for _, mode := range modes[:count] {
		words = append(words, mode.String())
	}

	return strings.Join(words, ".")
}
