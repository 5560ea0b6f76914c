package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// ParseImage reads a program image: base-10 integers separated by commas,
// optionally split over several lines and newline terminated.
func ParseImage(input io.Reader) (image []int64, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, MEMORY_LIMIT)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		line = strings.TrimSpace(scanner.Text())
		lineno++

		if len(line) == 0 {
			continue
		}

		words := strings.Split(strings.TrimSuffix(line, ","), ",")
		for _, word := range words {
			word = strings.TrimSpace(word)
			var value int64
			value, err = strconv.ParseInt(word, 10, 64)
			if err != nil {
				err = ErrParseNumber(word)
				return
			}
			image = append(image, value)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if len(image) == 0 {
		err = ErrImageEmpty
		return
	}

	return
}

// FormatImage writes an image in the form read by ParseImage.
func FormatImage(output io.Writer, image []int64) (err error) {
	words := make([]string, len(image))
	for n, value := range image {
		words[n] = strconv.FormatInt(value, 10)
	}

	_, err = fmt.Fprintln(output, strings.Join(words, ","))
	return
}

// Disassemble walks an image from address 0, yielding each instruction's
// address and its assembly text. Words that do not decode as a complete
// instruction are yielded as .data.
func Disassemble(image []int64) iter.Seq2[int, string] {
	return func(yield func(ip int, text string) bool) {
		for ip := 0; ip < len(image); {
			code := Code(image[ip])
			op, modes, err := code.Decode()
			length := int(op.Length())
			if err != nil || ip+length > len(image) {
				if !yield(ip, fmt.Sprintf(".data %d", image[ip])) {
					return
				}
				ip++
				continue
			}

			count, _ := op.Params()
			words := []string{op.String()}
			for n := range count {
				arg := strconv.FormatInt(image[ip+1+n], 10)
				if modes[n] == MODE_IMMEDIATE {
					arg = "#" + arg
				}
				words = append(words, arg)
			}
			if !yield(ip, strings.Join(words, " ")) {
				return
			}
			ip += length
		}
	}
}
