package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeqLast(t *testing.T) {
	assert := assert.New(t)

	last, ok := IterSeqLast(slices.Values([]int{3, 1, 4}))
	assert.True(ok)
	assert.Equal(4, last)

	last, ok = IterSeqLast(slices.Values([]int(nil)))
	assert.False(ok)
	assert.Equal(0, last)
}
