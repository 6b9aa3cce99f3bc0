package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The cache must be a clean no-op when redis is absent, so every service
// path works with a nil Cache.
func TestNilCacheIsNoOp(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var dest []string
	found, err := c.Get(ctx, "key", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Set(ctx, "key", []string{"a"}, 0))
	assert.Zero(t, c.GetVersion(ctx, "key"))
	c.IncrementVersion(ctx, "key")
	assert.NoError(t, c.Close())
}

func TestEmptyCacheIsNoOp(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var dest int
	found, err := c.Get(ctx, "key", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Set(ctx, "key", 1, 0))
	assert.Zero(t, c.GetVersion(ctx, "key"))
}
