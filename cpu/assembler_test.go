package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		text  string
		image []int64
	}){
		{"halt", "halt\n", []int64{99}},
		{"comment", "; nothing\n  halt ; stop\n", []int64{99}},
		{"positional", "add 9 10 3\n", []int64{1, 9, 10, 3}},
		{"immediate", "mul 4 #3 4\n", []int64{1002, 4, 3, 4}},
		{"negative", "add #100 #-1 4\n", []int64{1101, 100, -1, 4}},
		{"hex", "out #0x10\n", []int64{104, 16}},
		{"jump_back", "loop: jt #1 loop\n", []int64{105, 1, 0}},
		{"jump_ahead", "jf #0 #there\nthere: halt\n", []int64{1106, 0, 3, 99}},
		{"labels", "a: b: .data a b\n", []int64{0, 0}},
		{"equate", ".equ TEN 10\nout #TEN\nout TEN\n", []int64{104, 10, 4, 10}},
		{"equate_label", ".equ HERE there\nthere: .data HERE\n", []int64{0}},
		{"expression", ".equ SIZE 3\nout #$(SIZE*2)\n", []int64{104, 6}},
		{"expression_ip", "halt\n.data $(IP+1)\n", []int64{99, 2}},
		{"expression_label", "a: halt\n.data $(a+5) $(LINENO)\n", []int64{99, 5, 2}},
		{"data", ".data 1 -2 3\n", []int64{1, -2, 3}},
	}

	for _, entry := range table {
		asm := &Assembler{}
		image, err := asm.Parse(strings.NewReader(entry.text))
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.image, image, entry.name)
	}
}

func TestAssembler_Program(t *testing.T) {
	assert := assert.New(t)

	text := `
.equ SIZE 3
start:
    in count            ; read a value
    add count #SIZE count
    out count
    halt
count: .data 0
`
	asm := &Assembler{}
	image, err := asm.Parse(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal([]int64{3, 9, 1001, 9, 3, 9, 4, 9, 99, 0}, image)
	assert.Equal(map[string]int64{"start": 0, "count": 9}, asm.Label)

	_, output, err := doRun(image, "5")
	assert.NoError(err)
	assert.Equal([]int64{8}, output)
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "100")

	for range 2 {
		image, err := asm.Parse(strings.NewReader("out #BASE\n.data $(BASE+1)\n"))
		assert.NoError(err)
		assert.Equal([]int64{104, 100, 101}, image)
	}
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		text   string
		err    error
		lineno int
	}){
		{"empty", "; nothing\n", ErrImageEmpty, 1},
		{"mnemonic", "frob 1\n", ErrMnemonic("frob"), 1},
		{"missing", "halt\nmul 1 2\n", ErrOpcodeValueMissing, 2},
		{"extra", "out 1 2\n", ErrOpcodeExtraArgs, 1},
		{"dest", "add 1 2 #3\n", ErrOpcodeDest, 1},
		{"in_dest", "in #3\n", ErrOpcodeDest, 1},
		{"number", "out 1z\n", ErrParseNumber("1z"), 1},
		{"label_missing", "jt 1 nowhere\nhalt\n", ErrLabelMissing("nowhere"), 1},
		{"label_duplicate", "a: halt\na: halt\n", ErrLabelDuplicate, 2},
		{"label_invalid", "1a: halt\n", ErrLabelInvalid, 1},
		{"equ_syntax", ".equ X\n", ErrEquateSyntax, 1},
		{"equ_duplicate", ".equ X 1\n.equ X 2\n", ErrEquateDuplicate, 2},
		{"data_missing", ".data\n", ErrDataMissing, 1},
		{"data_immediate", ".data #1\n", ErrParseNumber("#1"), 1},
		{"expression", "out #$(1/0)\n", ErrParseExpression("1/0"), 1},
		{"expression_type", "out #$('x')\n", ErrParseExpression("'x'"), 1},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.text))
		if !assert.ErrorIs(err, entry.err, entry.name) {
			continue
		}
		var syntax ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssembler_Disassemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		image []int64
	}){
		{"canonical", []int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}},
		{"compare", []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}},
		{"jumps", []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}},
		{"ring", []int64{3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26,
			27, 4, 27, 1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5}},
		{"garbage", []int64{1201, 0, 0, 0, 99, 1, 0}},
	}

	for _, entry := range table {
		var lines []string
		for _, line := range Disassemble(entry.image) {
			lines = append(lines, line)
		}

		asm := &Assembler{}
		image, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.image, image, entry.name)
	}
}
