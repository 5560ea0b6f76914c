package io

import (
	"context"
	"iter"
	"slices"

	"github.com/ezrec/intcode/internal"
)

// Output records every value produced, and forwards each one to Sender
// if it is set.
type Output struct {
	Values []int64
	Sender *Sender
}

// Send records the value and forwards it.
func (out *Output) Send(ctx context.Context, value int64) (err error) {
	out.Values = append(out.Values, value)

	if out.Sender != nil {
		err = out.Sender.Send(ctx, value)
	}

	return
}

// Close closes the forwarding sender, if any.
func (out *Output) Close() {
	if out.Sender != nil {
		out.Sender.Close()
	}
}

// All returns an iterator over the recorded values.
func (out *Output) All() iter.Seq[int64] {
	return slices.Values(out.Values)
}

// Last returns the most recently recorded value.
func (out *Output) Last() (value int64, ok bool) {
	return internal.IterSeqLast(out.All())
}
