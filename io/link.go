package io

import (
	"context"
	"sync"
	"sync/atomic"
)

const (
	// LINK_DEFAULT_CAPACITY is the default number of values in flight on a link.
	LINK_DEFAULT_CAPACITY = 1024
)

// link is the bounded channel shared by a Sender and its Receiver.
type link struct {
	values  chan int64
	dropped chan struct{} // Closed when the receiver stops listening.

	closed    atomic.Bool
	closeOnce sync.Once
	dropOnce  sync.Once
}

// Sender is the producing end of a link. A Sender is owned by a single
// goroutine; Send and Close must not be called concurrently.
type Sender struct {
	link *link
}

// Receiver is the consuming end of a link. It may be received from
// repeatedly until the sender closes.
type Receiver struct {
	link *link
}

var _ Source = (*Receiver)(nil)

// NewLink creates a link holding up to capacity values in flight. A
// capacity below 1 selects LINK_DEFAULT_CAPACITY.
func NewLink(capacity int) (tx *Sender, rx *Receiver) {
	if capacity < 1 {
		capacity = LINK_DEFAULT_CAPACITY
	}

	ln := &link{
		values:  make(chan int64, capacity),
		dropped: make(chan struct{}),
	}

	tx = &Sender{link: ln}
	rx = &Receiver{link: ln}

	return
}

// Send forwards a value to the receiver, blocking while the link is full.
// Values sent after the receiver has closed are discarded. Returns
// ErrChannelClosed if the sender itself has been closed.
func (tx *Sender) Send(ctx context.Context, value int64) (err error) {
	ln := tx.link
	if ln.closed.Load() {
		err = ErrChannelClosed
		return
	}

	select {
	case <-ln.dropped:
		return
	default:
	}

	select {
	case ln.values <- value:
	case <-ln.dropped:
	case <-ctx.Done():
		err = ctx.Err()
	}

	return
}

// Close signals end-of-stream to the receiver. Values already sent remain
// receivable. Close may be called more than once.
func (tx *Sender) Close() {
	ln := tx.link
	ln.closeOnce.Do(func() {
		ln.closed.Store(true)
		close(ln.values)
	})
}

// Receive blocks until a value is available. Returns ErrChannelClosed once
// the sender has closed and every value sent before has been received, or
// after the receiver itself has closed.
func (rx *Receiver) Receive(ctx context.Context) (value int64, err error) {
	ln := rx.link

	select {
	case <-ln.dropped:
		err = ErrChannelClosed
		return
	default:
	}

	select {
	case recv, ok := <-ln.values:
		if !ok {
			err = ErrChannelClosed
			return
		}
		value = recv
	case <-ln.dropped:
		err = ErrChannelClosed
	case <-ctx.Done():
		err = ctx.Err()
	}

	return
}

// Close stops listening. Later sends on the link are discarded.
func (rx *Receiver) Close() {
	ln := rx.link
	ln.dropOnce.Do(func() {
		close(ln.dropped)
	})
}

// Len returns the number of values sent but not yet received.
func (rx *Receiver) Len() int {
	return len(rx.link.values)
}
