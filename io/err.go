package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Source errors
	ErrSourceEmpty    = errors.New(f("source empty"))
	ErrInputExhausted = errors.New(f("input exhausted"))
	ErrChannelClosed  = errors.New(f("channel closed"))
)

// ErrParseNumber is a text token that is not a base-10 integer.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
