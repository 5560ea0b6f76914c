package internal

import (
	"iter"
)

// IterSeqLast returns the final value of a sequence, and whether there was one.
func IterSeqLast[T any](seq iter.Seq[T]) (last T, ok bool) {
	for val := range seq {
		last = val
		ok = true
	}
	return
}
