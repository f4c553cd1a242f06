package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBucket(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("AAPL", 3, 0), "token %d", i)
	}
	assert.False(t, l.Allow("AAPL", 3, 0), "bucket exhausted")
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("AAPL", 1, 0))
	assert.False(t, l.Allow("AAPL", 1, 0))
	assert.True(t, l.Allow("MSFT", 1, 0), "a drained key must not affect others")
}
