package io

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
)

// Text provides base-10 integers read from a stream of whitespace or newline
// separated tokens.
type Text struct {
	Input io.Reader

	scanner *bufio.Scanner
}

var _ Source = (*Text)(nil)

// NewText creates a source over a literal text buffer.
func NewText(text string) *Text {
	return &Text{Input: strings.NewReader(text)}
}

// Receive returns the next token of the text as an integer.
func (tc *Text) Receive(ctx context.Context) (value int64, err error) {
	if tc.Input == nil {
		err = ErrSourceEmpty
		return
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = ErrSourceEmpty
		}
		return
	}

	word := tc.scanner.Text()
	value, err = strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// Close drops the remaining text.
func (tc *Text) Close() {
	tc.Input = nil
	tc.scanner = nil
}
