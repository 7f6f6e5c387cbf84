package http

import (
	"fmt"
	"testing"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWithID(id string) domain.PlanResult {
	return domain.PlanResult{PlanID: id}
}

func TestResultCache_PutGet(t *testing.T) {
	c := newResultCache(10)

	_, ok := c.get("missing")
	assert.False(t, ok)

	c.put("a", planWithID("plan-a"))
	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "plan-a", got.PlanID)
}

func TestResultCache_UpdateExistingKey(t *testing.T) {
	c := newResultCache(10)

	c.put("a", planWithID("plan-a"))
	c.put("a", planWithID("plan-a2"))

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "plan-a2", got.PlanID)
	assert.Equal(t, 1, c.len())
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newResultCache(3)

	c.put("a", planWithID("plan-a"))
	c.put("b", planWithID("plan-b"))
	c.put("c", planWithID("plan-c"))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("d", planWithID("plan-d"))

	_, ok = c.get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, ok := c.get(key)
		assert.True(t, ok, "entry %q should survive", key)
	}
	assert.Equal(t, 3, c.len())
}

func TestResultCache_ManyInsertionsStayBounded(t *testing.T) {
	c := newResultCache(5)

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		c.put(key, planWithID(key))
	}

	assert.Equal(t, 5, c.len())
	got, ok := c.get("key-99")
	require.True(t, ok)
	assert.Equal(t, "key-99", got.PlanID)
}

func TestCacheKey_Deterministic(t *testing.T) {
	a := cacheKey([]byte(`{"lkp":{"lat":1}}`))
	b := cacheKey([]byte(`{"lkp":{"lat":1}}`))
	other := cacheKey([]byte(`{"lkp":{"lat":2}}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Len(t, a, 64)
}
