package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type card struct {
	Name string `json:"name"`
}

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSONCachesValue(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (*card, error) {
		calls++
		return &card{Name: "Ann"}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "user:u1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	got, err = GetOrLoadJSON(c, ctx, "user:u1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("user:u1"))
}

func TestDelForcesReload(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	name := "Ann"
	load := func(context.Context) (*card, error) { return &card{Name: name}, nil }

	_, err := GetOrLoadJSON(c, ctx, "user:u1", time.Minute, load)
	require.NoError(t, err)

	name = "Annie"
	require.NoError(t, c.Del(ctx, "user:u1"))
	got, err := GetOrLoadJSON(c, ctx, "user:u1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	c, mr := newCache(t)
	boom := errors.New("db down")

	_, err := GetOrLoadJSON(c, context.Background(), "user:u2", time.Minute, func(context.Context) (*card, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("user:u2"))
}

func TestRedisDownFallsBackToLoad(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	got, err := GetOrLoadJSON(c, context.Background(), "user:u3", time.Minute, func(context.Context) (*card, error) {
		return &card{Name: "Bo"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Bo", got.Name)
}

func TestMGetAndSetMany(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetMany(ctx, map[string][]byte{"a": []byte("1"), "c": []byte("3")}, time.Minute))
	got := c.MGet(ctx, "a", "b", "c")
	require.Len(t, got, 3)
	assert.Equal(t, []byte("1"), got[0])
	assert.Nil(t, got[1])
	assert.Equal(t, []byte("3"), got[2])

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, [][]byte{nil}, c.MGet(ctx, "a"))
}

func TestMGetDegradesWhenRedisIsDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()
	got := c.MGet(context.Background(), "a", "b")
	assert.Equal(t, [][]byte{nil, nil}, got)
}
