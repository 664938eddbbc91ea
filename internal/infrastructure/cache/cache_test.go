package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("p", time.Minute)
	defer c.Close()

	_, err := c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryClientExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "k", prefixed("", "k"))
	assert.Equal(t, "p:k", prefixed("p", "k"))
}

func TestNewDefaultsToMemory(t *testing.T) {
	c, err := New(context.Background(), Config{Driver: "memory"})
	require.NoError(t, err)
	_, ok := c.(*memoryClient)
	assert.True(t, ok)
}
