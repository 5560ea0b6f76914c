package io

import (
	"context"
	"errors"
)

// Queue is an ordered list of input sources, drained front to back. The
// front source is received from until it is empty; it is then closed and
// the next source is tried.
type Queue struct {
	sources []Source
}

// Push appends a source to the back of the queue.
func (q *Queue) Push(src Source) {
	q.sources = append(q.sources, src)
}

// Len returns the number of sources not yet exhausted.
func (q *Queue) Len() int {
	return len(q.sources)
}

// Receive returns the next value from the front-most source that has one.
// If every source is empty, returns ErrInputExhausted, or ErrChannelClosed
// if the last source dropped was a link whose sender had closed.
func (q *Queue) Receive(ctx context.Context) (value int64, err error) {
	var closed bool

	for len(q.sources) > 0 {
		src := q.sources[0]
		value, err = src.Receive(ctx)
		switch {
		case err == nil:
			return
		case errors.Is(err, ErrSourceEmpty):
			closed = false
		case errors.Is(err, ErrChannelClosed):
			closed = true
		default:
			return
		}
		src.Close()
		q.sources[0] = nil
		q.sources = q.sources[1:]
	}

	if closed {
		err = ErrChannelClosed
	} else {
		err = ErrInputExhausted
	}

	return
}

// Close closes and removes every source.
func (q *Queue) Close() {
	for _, src := range q.sources {
		src.Close()
	}
	q.sources = nil
}
