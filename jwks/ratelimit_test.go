package jwks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_RateLimiter_AdmitsUpToLimit(t *testing.T) {
	limiter := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.allow(), "attempt %d should be admitted", i)
	}
	assert.False(t, limiter.allow(), "attempt past the limit should be rejected")
}

func Test_RateLimiter_RejectionsCostNothing(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return clock }

	assert.True(t, limiter.allow())
	assert.True(t, limiter.allow())

	// A storm of rejected attempts must not push recovery further out.
	for i := 0; i < 100; i++ {
		assert.False(t, limiter.allow())
	}

	clock = clock.Add(61 * time.Second)
	assert.True(t, limiter.allow(), "budget should recover once the window slides past")
}

func Test_RateLimiter_SlidingWindow(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return clock }

	assert.True(t, limiter.allow()) // t=0
	clock = clock.Add(40 * time.Second)
	assert.True(t, limiter.allow()) // t=40
	assert.False(t, limiter.allow())

	// t=70: the t=0 stamp has left the window, the t=40 one has not.
	clock = clock.Add(30 * time.Second)
	assert.True(t, limiter.allow())
	assert.False(t, limiter.allow())
}

func Test_RateLimiter_Concurrent(t *testing.T) {
	limiter := newRateLimiter(10, time.Minute)

	results := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		go func() { results <- limiter.allow() }()
	}

	admitted := 0
	for i := 0; i < 100; i++ {
		if <-results {
			admitted++
		}
	}
	assert.Equal(t, 10, admitted)
}
