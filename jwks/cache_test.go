package jwks

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_KeyCache_LRUEviction(t *testing.T) {
	cache, err := newKeyCache(2, 0)
	require.NoError(t, err)

	cache.add("a", &SigningKey{Kid: "a"})
	cache.add("b", &SigningKey{Kid: "b"})

	// Touch "a" so "b" becomes least recently used.
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.add("c", &SigningKey{Kid: "c"})

	_, ok = cache.get("b")
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok = cache.get("a")
	assert.True(t, ok)
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func Test_KeyCache_LazyExpiry(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cache, err := newKeyCache(5, 10*time.Minute)
	require.NoError(t, err)
	cache.now = func() time.Time { return clock }

	cache.add("a", &SigningKey{Kid: "a"})

	clock = clock.Add(9 * time.Minute)
	_, ok := cache.get("a")
	assert.True(t, ok, "entry within max age should be served")

	clock = clock.Add(2 * time.Minute)
	_, ok = cache.get("a")
	assert.False(t, ok, "entry past max age should be treated as absent")

	// The expired entry is gone for good, not just hidden.
	clock = clock.Add(-5 * time.Minute)
	_, ok = cache.get("a")
	assert.False(t, ok)
}

func Test_KeyCache_UnboundedMode(t *testing.T) {
	cache, err := newKeyCache(0, 0)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		kid := fmt.Sprintf("kid-%d", i)
		cache.add(kid, &SigningKey{Kid: kid})
	}

	for i := 0; i < 1000; i++ {
		_, ok := cache.get(fmt.Sprintf("kid-%d", i))
		require.True(t, ok, "unbounded cache must never evict")
	}
}

func Test_KeyCache_NoExpiryWhenDisabled(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cache, err := newKeyCache(5, 0)
	require.NoError(t, err)
	cache.now = func() time.Time { return clock }

	cache.add("a", &SigningKey{Kid: "a"})

	clock = clock.Add(1000 * time.Hour)
	_, ok := cache.get("a")
	assert.True(t, ok)
}
