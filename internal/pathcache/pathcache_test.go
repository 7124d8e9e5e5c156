package pathcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutThenGetHits(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/report.txt", "uuid1")

	uuid, ok := c.Get("tenantA", "alice", "/docs/report.txt")
	require.True(t, ok)
	assert.Equal(t, "uuid1", uuid)
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestGetMissingIsMiss(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	_, ok := c.Get("tenantA", "alice", "/nope")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	c := New(Config{TTL: time.Millisecond})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/a", "uuid1")
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("tenantA", "alice", "/docs/a")
	assert.False(t, ok)
}

func TestDifferentPrincipalsDoNotShareEntries(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/a", "uuid1")

	_, ok := c.Get("tenantA", "bob", "/docs/a")
	assert.False(t, ok)
}

func TestInvalidatePrefixDropsSubtree(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/a", "u1")
	c.Put("tenantA", "alice", "/docs/sub/b", "u2")
	c.Put("tenantA", "alice", "/other/c", "u3")

	c.Invalidate("tenantA", "/docs")

	_, ok1 := c.Get("tenantA", "alice", "/docs/a")
	_, ok2 := c.Get("tenantA", "alice", "/other/c")
	assert.False(t, ok1)
	assert.True(t, ok2)
}

func TestInvalidateByUUIDDropsMatchingEntries(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/a", "u1")
	c.Put("tenantA", "alice", "/docs/alias-of-a", "u1")
	c.Put("tenantA", "alice", "/other", "u2")

	c.InvalidateByUUID("tenantA", "u1")

	_, ok1 := c.Get("tenantA", "alice", "/docs/a")
	_, ok2 := c.Get("tenantA", "alice", "/other")
	assert.False(t, ok1)
	assert.True(t, ok2)
}

func TestHitRateReflectsLookups(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/a", "u1")
	c.Get("tenantA", "alice", "/docs/a")
	c.Get("tenantA", "alice", "/missing")

	assert.InDelta(t, 0.5, c.Stats().HitRate(), 0.001)
}

func TestInvalidateAllClearsTenant(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	defer c.Close()
	c.Put("tenantA", "alice", "/docs/a", "u1")
	c.Put("tenantB", "alice", "/docs/a", "u2")

	c.InvalidateAll("tenantA")

	_, ok1 := c.Get("tenantA", "alice", "/docs/a")
	_, ok2 := c.Get("tenantB", "alice", "/docs/a")
	assert.False(t, ok1)
	assert.True(t, ok2)
}
