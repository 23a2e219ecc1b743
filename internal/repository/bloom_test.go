package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloomOffsetsStable(t *testing.T) {
	a := BloomOffsets(42, 1000)
	b := BloomOffsets(42, 1000)
	assert.Equal(t, a, b)
	for _, off := range a {
		assert.Less(t, off, uint64(1000))
	}
	assert.NotEqual(t, BloomOffsets(42, 1<<20), BloomOffsets(43, 1<<20))
}
