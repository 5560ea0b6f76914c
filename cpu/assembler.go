package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// link is an operand waiting for a label's address.
type link struct {
	At     int    // Index into the image.
	Label  string // Label to resolve.
	LineNo int    // Source line of the reference.
	Line   string // Source text of the reference.
}

// Assembler is a single pass assembler for Intcode.
//
// Each line holds an optional list of 'label:' definitions, then either a
// directive or an instruction, then an optional ';' comment.
//
//	.equ NAME value    ; define an equate
//	.data value...     ; emit raw words
//	add a b dest       ; mnemonic, then one operand per parameter
//
// An operand is an address (position mode), or '#' followed by a value
// (immediate mode). Values are numbers, labels, equates, or $(expr), a
// Starlark expression over the equates, the labels defined so far, IP and
// LINENO.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int64  // Map of labels to addresses.
	Equate map[string]string // Map of equates.

	predefine map[string]string // Predefines
	image     []int64           // Words emitted so far.
	links     []link            // Unresolved label references.
}

// mnemonicMap maps instruction names to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := map[string]Opcode{}
	for op := range opcodeParams {
		mnemonics[op.String()] = op
	}
	return mnemonics
}()

var (
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Predefine defines a new equate or redefines an existing equate, for all
// later calls to Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a numeric word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var equ int64
		equ, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be labels.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(equ)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt64(addr)
	}
	pred["IP"] = starlark.MakeInt(len(asm.image))
	pred["LINENO"] = starlark.MakeInt(lineno)

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands expressions, handles .equ and labels, and returns the
// words of the remaining directive or instruction.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2:len(str)-1], lineno)
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if !reIdentifier.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !reIdentifier.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = int64(len(asm.image))
		words = words[1:]
	}

	return
}

// operand decodes a single operand word into its mode and value. A label
// that is not yet known is returned for later linking.
func (asm *Assembler) operand(word string) (mode Mode, value int64, label string, err error) {
	if strings.HasPrefix(word, "#") {
		mode = MODE_IMMEDIATE
		word = word[1:]
	}

	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	if reIdentifier.MatchString(word) {
		addr, ok := asm.Label[word]
		if ok {
			value = addr
		} else {
			label = word
		}
		return
	}

	value, err = asm.valueOf(word)
	return
}

// emit appends a word to the image, noting a label to link if needed.
func (asm *Assembler) emit(value int64, label string, lineno int, line string) {
	if len(label) != 0 {
		asm.links = append(asm.links, link{
			At:     len(asm.image),
			Label:  label,
			LineNo: lineno,
			Line:   line,
		})
	}
	asm.image = append(asm.image, value)
}

// parseWords evaluates the words of a directive or instruction.
func (asm *Assembler) parseWords(words []string, lineno int, line string) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if words[0] == ".data" {
		if len(words) == 1 {
			err = ErrDataMissing
			return
		}
		for _, word := range words[1:] {
			var mode Mode
			var value int64
			var label string
			mode, value, label, err = asm.operand(word)
			if err != nil {
				return
			}
			if mode != MODE_POSITION {
				err = ErrParseNumber(word)
				return
			}
			asm.emit(value, label, lineno, line)
		}
		return
	}

	op, ok := mnemonicMap[words[0]]
	if !ok {
		err = ErrMnemonic(words[0])
		return
	}

	count, dest := op.Params()
	args := words[1:]
	if len(args) > count {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < count {
		err = ErrOpcodeValueMissing
		return
	}

	modes := make([]Mode, count)
	values := make([]int64, count)
	labels := make([]string, count)
	for n, arg := range args {
		modes[n], values[n], labels[n], err = asm.operand(arg)
		if err != nil {
			return
		}
		if n == dest && modes[n] != MODE_POSITION {
			err = ErrOpcodeDest
			return
		}
	}

	asm.emit(int64(MakeCode(op, modes...)), "", lineno, line)
	for n := range count {
		asm.emit(values[n], labels[n], lineno, line)
	}

	return
}

// Parse assembles an input stream into a program image.
func (asm *Assembler) Parse(input io.Reader) (image []int64, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]int64{}
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = map[string]string{}
	}
	asm.image = nil
	asm.links = nil

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			slog.Debug("asm: line", "lineno", lineno, "text", text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno, line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, ln := range asm.links {
		addr, ok := asm.Label[ln.Label]
		if !ok {
			lineno = ln.LineNo
			line = ln.Line
			err = ErrLabelMissing(ln.Label)
			return
		}
		asm.image[ln.At] = addr
	}

	if len(asm.image) == 0 {
		err = ErrImageEmpty
		return
	}

	image = asm.image
	asm.image = nil

	return
}
