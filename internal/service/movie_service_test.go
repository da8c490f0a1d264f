package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

func boolp(b bool) *bool { return &b }

func TestCreateMovieAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.Movies.Create(ctx, validMovieInput("Inception"))
	require.NoError(t, err)
	assert.True(t, v.AddedByAdmin)
	assert.Equal(t, domain.CategoryTopRated, v.Category)

	list, err := f.Movies.List(ctx, domain.CategoryTopRated)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Inception", list[0].Title)
	assert.Equal(t, 0.0, list[0].AverageRating)
	assert.Equal(t, 0, list[0].ReviewCount)

	other, err := f.Movies.List(ctx, domain.CategoryTVShows)
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = f.Movies.List(ctx, "Cartoons")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateMovieValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validMovieInput("")
	in.Cast = "  "
	_, err := f.Movies.Create(ctx, in)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "cast")

	in = validMovieInput("X")
	in.Category = "Cartoons"
	_, err = f.Movies.Create(ctx, in)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "type")
}

func TestListDecoratesWithAverages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "a"), f.user(t, "b")
	m1 := f.movie(t, "First", true)
	m2 := f.movie(t, "Second", true)

	_, err := f.Reviews.Create(ctx, a.ID, m1.ID, 3, "ok")
	require.NoError(t, err)
	_, err = f.Reviews.Create(ctx, b.ID, m1.ID, 5, "great")
	require.NoError(t, err)

	list, err := f.Movies.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m1.ID, list[0].ID, "insertion order")
	assert.Equal(t, 4.0, list[0].AverageRating)
	assert.Equal(t, 2, list[0].ReviewCount)
	assert.Equal(t, m2.ID, list[1].ID)
	assert.Equal(t, 0.0, list[1].AverageRating)
}

func TestGetMovie(t *testing.T) {
	f := newFixture(t)
	m := f.movie(t, "Heat", true)

	v, err := f.Movies.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", v.Title)

	_, err = f.Movies.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeatured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.Movies.Featured(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now()
	older := &domain.Movie{ID: utils.NewID(), Title: "Older", Category: domain.CategoryPopular, IsFeatured: true, UpdatedAt: now.Add(-time.Hour)}
	newer := &domain.Movie{ID: utils.NewID(), Title: "Newer", Category: domain.CategoryPopular, IsFeatured: true, UpdatedAt: now}
	require.NoError(t, f.movies.Create(ctx, newer))
	require.NoError(t, f.movies.Create(ctx, older))

	v, err := f.Movies.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Newer", v.Title)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.movie(t, "The Dark Knight", true)
	f.movie(t, "Dark City", false)
	f.movie(t, "100% Wolf", true)

	_, err := f.Movies.Search(ctx, "   ")
	require.ErrorIs(t, err, domain.ErrValidation)

	res, err := f.Movies.Search(ctx, "DARK")
	require.NoError(t, err)
	require.Len(t, res.Results, 1, "only admin-added movies match")
	assert.Equal(t, "The Dark Knight", res.Results[0].Title)
	assert.Empty(t, res.Message)

	res, err = f.Movies.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, res.Results, 1, "wildcards match literally")
	assert.Equal(t, "100% Wolf", res.Results[0].Title)

	res, err = f.Movies.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Equal(t, msgNoMovie, res.Message)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
}

func TestUpdateMovie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.Movies.Create(ctx, validMovieInput("Inception"))
	require.NoError(t, err)

	in := validMovieInput("Inception (2010)")
	in.IsFeatured = boolp(true)
	up, err := f.Movies.Update(ctx, v.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Inception (2010)", up.Title)
	assert.True(t, up.IsFeatured)
	assert.True(t, up.AddedByAdmin)

	in.IsFeatured = nil
	up, err = f.Movies.Update(ctx, v.ID, in)
	require.NoError(t, err)
	assert.True(t, up.IsFeatured, "absent isFeatured keeps the flag")

	_, err = f.Movies.Update(ctx, "missing", in)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.Movies.Update(ctx, v.ID, MovieInput{Title: "x"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteMovieRemovesReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ann")
	m := f.movie(t, "Gone", true)
	_, err := f.Reviews.Create(ctx, u.ID, m.ID, 4, "fine")
	require.NoError(t, err)

	require.NoError(t, f.Movies.Delete(ctx, m.ID))
	_, err = f.Movies.Get(ctx, m.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	rs, err := f.Reviews.FindByMovie(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, rs)

	require.ErrorIs(t, f.Movies.Delete(ctx, m.ID), domain.ErrNotFound)
}
