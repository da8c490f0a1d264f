package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinereview/internal/domain"
)

func TestRateAndAverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	avg, err := f.Ratings.Average(ctx, "tt1")
	require.NoError(t, err)
	assert.Equal(t, "0.0", avg.Average)
	assert.Equal(t, 0, avg.Total)

	res, err := f.Ratings.Rate(ctx, "u1", "tt1", 4)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Rating submitted", res.Message)

	res, err = f.Ratings.Rate(ctx, "u1", "tt1", 5)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Rating updated", res.Message)
	assert.Equal(t, 5, res.Rating.Stars)

	_, err = f.Ratings.Rate(ctx, "u2", "tt1", 2)
	require.NoError(t, err)

	avg, err = f.Ratings.Average(ctx, "tt1")
	require.NoError(t, err)
	assert.Equal(t, "3.5", avg.Average)
	assert.Equal(t, 2, avg.Total)
}

func TestRateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.Ratings.Rate(ctx, "u1", "tt1", 0)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.Ratings.Rate(ctx, "u1", "tt1", 6)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.Ratings.Rate(ctx, "u1", " ", 3)
	require.ErrorIs(t, err, domain.ErrValidation)
}
