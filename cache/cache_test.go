package cache

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/target"
)

func openCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, path
}

func shape(t *testing.T, tgt target.Target) dyn.Type {
	t.Helper()
	i32, err := dyn.ParseLeaf("int", tgt)
	require.NoError(t, err)
	r3, err := dyn.ParseLeaf("real3", tgt)
	require.NoError(t, err)
	return dyn.NewVariant(i32, dyn.NewTuple(r3, i32))
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)
	v := shape(t, target.Default)

	_, ok, err := c.Get(ctx, v, target.Default)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, v, target.Default, v.Source()))

	got, ok, err := c.Get(ctx, shape(t, target.Default), target.Default)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v.Source(), got)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCache_KeyedByTarget(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)

	single := target.Target{Precision: target.Single, AddressBits: 64}
	v := shape(t, target.Default)
	require.NoError(t, c.Put(ctx, v, target.Default, "double"))

	_, ok, err := c.Get(ctx, v, single)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, v, single, "single"))
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCache_Replace(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)
	v := shape(t, target.Default)

	require.NoError(t, c.Put(ctx, v, target.Default, "first"))
	require.NoError(t, c.Put(ctx, v, target.Default, "second"))

	got, ok, err := c.Get(ctx, v, target.Default)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", got)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_Labels(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)
	v := shape(t, target.Default)

	plain := KeyOf(v, target.Default, "")
	checked := KeyOf(v, target.Default, "checks")
	assert.Equal(t, plain.Digest, checked.Digest)

	require.NoError(t, c.PutKey(ctx, checked, v.Name(), "with checks"))
	_, ok, err := c.GetKey(ctx, plain)
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := c.GetKey(ctx, checked)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "with checks", got)
}

func TestCache_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	v := shape(t, target.Default)

	c1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c1.Put(ctx, v, target.Default, "kept"))
	require.NoError(t, c1.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()

	got, ok, err := c2.Get(ctx, v, target.Default)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "kept", got)
}

func TestCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)
	v := shape(t, target.Default)
	require.NoError(t, c.Put(ctx, v, target.Default, v.Source()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok, err := c.Get(ctx, v, target.Default)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, v.Source(), got)
		}()
	}
	wg.Wait()
}

func TestCache_Closed(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, _, err := c.Get(ctx, shape(t, target.Default), target.Default)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindClosed})
}

func TestCache_CloseWhileInUse(t *testing.T) {
	ctx := context.Background()
	c, _ := openCache(t)
	v := shape(t, target.Default)
	require.NoError(t, c.Put(ctx, v, target.Default, v.Source()))

	closed := &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindClosed}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				var err error
				if i%2 == 0 {
					_, _, err = c.Get(ctx, v, target.Default)
				} else {
					err = c.Put(ctx, v, target.Default, v.Source())
				}
				if err != nil {
					assert.ErrorIs(t, err, closed)
					return
				}
			}
		}()
	}
	require.NoError(t, c.Close())
	wg.Wait()

	_, err := c.Len(ctx)
	assert.ErrorIs(t, err, closed)
}
