// Package io provides the input sources and output sinks of an Intcode
// machine. Sources include literal text (Text), fixed values (Values), and
// the receiving end of a bounded Link fed by another machine. A Queue
// drains its sources strictly in order, and an Output records every value
// produced while optionally forwarding it over a Link.
package io

import (
	"context"
)

// Source defines the interface for all input sources.
type Source interface {
	// Receive returns the next value of the source. Returns
	// ErrSourceEmpty once the source has no more values, or
	// ErrChannelClosed if the source is a link whose sender has closed.
	Receive(ctx context.Context) (value int64, err error)
	// Close releases the source. Any values not yet received are dropped.
	Close()
}
