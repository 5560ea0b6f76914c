package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code  Code
		op    Opcode
		modes [PARAM_LIMIT]Mode
	}){
		{1, OP_ADD, [PARAM_LIMIT]Mode{}},
		{2, OP_MUL, [PARAM_LIMIT]Mode{}},
		{1002, OP_MUL, [PARAM_LIMIT]Mode{MODE_POSITION, MODE_IMMEDIATE}},
		{1101, OP_ADD, [PARAM_LIMIT]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE}},
		{3, OP_IN, [PARAM_LIMIT]Mode{}},
		{104, OP_OUT, [PARAM_LIMIT]Mode{MODE_IMMEDIATE}},
		{1105, OP_JT, [PARAM_LIMIT]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE}},
		{6, OP_JF, [PARAM_LIMIT]Mode{}},
		{107, OP_LT, [PARAM_LIMIT]Mode{MODE_IMMEDIATE}},
		{1008, OP_EQ, [PARAM_LIMIT]Mode{MODE_POSITION, MODE_IMMEDIATE}},
		{99, OP_HALT, [PARAM_LIMIT]Mode{}},
		{1108, OP_EQ, [PARAM_LIMIT]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE}},
	}

	for _, entry := range table {
		op, modes, err := entry.code.Decode()
		assert.NoError(err, "%d", entry.code)
		assert.Equal(entry.op, op, "%d", entry.code)
		assert.Equal(entry.modes, modes, "%d", entry.code)
	}
}

func TestDecode_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		err  error
	}){
		{0, ErrOpcodeInvalid},
		{9, ErrOpcodeInvalid},
		{98, ErrOpcodeInvalid},
		{-1, ErrOpcodeInvalid},
		{-1002, ErrOpcodeInvalid},
		{201, ErrOpcodeMode},
		{10001, ErrOpcodeDest},
		{103, ErrOpcodeDest},
		{10004, ErrOpcodeWidth},
		{1104, ErrOpcodeWidth},
		{199, ErrOpcodeWidth},
		{1000001, ErrOpcodeWidth},
	}

	for _, entry := range table {
		_, _, err := entry.code.Decode()
		assert.ErrorIs(err, entry.err, "%d", entry.code)
		assert.ErrorIs(err, ErrOpcodeInvalid, "%d", entry.code)
		assert.ErrorIs(err, ErrOpcode{}, "%d", entry.code)
	}
}

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(1002), MakeCode(OP_MUL, MODE_POSITION, MODE_IMMEDIATE))
	assert.Equal(Code(99), MakeCode(OP_HALT))
	assert.Equal(Code(104), MakeCode(OP_OUT, MODE_IMMEDIATE))
	assert.Equal(Code(1), MakeCode(OP_ADD, MODE_POSITION, MODE_POSITION, MODE_POSITION))
}

// Every word of up to four digits that decodes must re-encode to itself.
func TestDecode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	valid := 0
	for word := range int64(10000) {
		code := Code(word)
		op, modes, err := code.Decode()
		if err != nil {
			continue
		}
		valid++
		count, _ := op.Params()
		assert.Equal(code, MakeCode(op, modes[:count]...), "%d", word)
	}

	// add, mul, lt, eq: 4 mode pairs each; jt, jf: 4 each; in: 1; out: 2; halt: 1
	assert.Equal(4*4+2*4+1+2+1, valid)
}

func TestOpcode_Length(t *testing.T) {
	assert := assert.New(t)

	table := map[Opcode]int64{
		OP_ADD:  4,
		OP_MUL:  4,
		OP_IN:   2,
		OP_OUT:  2,
		OP_JT:   3,
		OP_JF:   3,
		OP_LT:   4,
		OP_EQ:   4,
		OP_HALT: 1,
	}

	for op, length := range table {
		assert.True(op.Valid(), op.String())
		assert.Equal(length, op.Length(), op.String())
	}

	assert.False(Opcode(0).Valid())
	count, dest := Opcode(42).Params()
	assert.Equal(0, count)
	assert.Equal(-1, dest)
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("mul.position.immediate.position", Code(1002).String())
	assert.Equal("halt", Code(99).String())
	assert.Equal("out.immediate", Code(104).String())
	assert.Equal("12345", Code(12345).String())
	assert.Equal("Opcode(42)", Opcode(42).String())
	assert.Equal("Mode(7)", Mode(7).String())
}
