package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	key := "127.0.0.1"
	window := time.Hour
	now := time.Date(2024, time.May, 6, 12, 0, 0, 0, time.UTC)

	limiter.addFailure(key, now.Add(-2*time.Hour), window)
	assert.False(t, limiter.tooManyRecent(key, now, 1, window), "old attempt is pruned")

	limiter.addFailure(key, now.Add(-30*time.Minute), window)
	assert.True(t, limiter.tooManyRecent(key, now, 1, window))
	assert.Equal(t, 30*time.Minute, limiter.retryAfter(key, now, window))

	limiter.reset(key)
	assert.False(t, limiter.tooManyRecent(key, now, 1, window))
	assert.Zero(t, limiter.retryAfter(key, now, window))
}

func TestAttemptLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	now := time.Date(2024, time.May, 6, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		limiter.addFailure("10.0.0.1", now, time.Minute)
	}
	assert.True(t, limiter.tooManyRecent("10.0.0.1", now, 3, time.Minute))
	assert.False(t, limiter.tooManyRecent("10.0.0.2", now, 1, time.Minute))
}
