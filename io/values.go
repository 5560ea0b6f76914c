package io

import (
	"context"
	"slices"
)

// Values provides a fixed list of integers, in order.
type Values struct {
	Data      []int64
	ReadIndex int
}

var _ Source = (*Values)(nil)

// NewValues creates a source over a copy of values.
func NewValues(values ...int64) *Values {
	return &Values{Data: slices.Clone(values)}
}

// Receive returns the next value.
func (vc *Values) Receive(ctx context.Context) (value int64, err error) {
	if vc.ReadIndex >= len(vc.Data) {
		err = ErrSourceEmpty
		return
	}

	value = vc.Data[vc.ReadIndex]
	vc.ReadIndex++
	return
}

// Close drops the remaining values.
func (vc *Values) Close() {
	vc.ReadIndex = len(vc.Data)
}
