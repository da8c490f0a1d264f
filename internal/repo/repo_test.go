package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cinereview/internal/core/database"
	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), database.Opts{Driver: "sqlite", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "100!% !_x!!", escapeLike("100% _x!"))
}

func TestUserRepo(t *testing.T) {
	r := NewUserRepo(openTestDB(t))
	ctx := context.Background()

	u := &domain.User{ID: utils.NewID(), Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, r.Create(ctx, u))

	dup := &domain.User{ID: utils.NewID(), Name: "Other", Email: "ann@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.ErrorIs(t, r.Create(ctx, dup), domain.ErrConflict)

	got, err := r.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := r.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	got.Preferences.FavoriteGenre = "Noir"
	require.NoError(t, r.Update(ctx, got))
	again, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Noir", again.Preferences.FavoriteGenre)

	ghost := &domain.User{ID: "ghost", Name: "G", Email: "g@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.ErrorIs(t, r.Update(ctx, ghost), domain.ErrNotFound)

	us, err := r.FindByIDs(ctx, []string{u.ID, "nope"})
	require.NoError(t, err)
	assert.Len(t, us, 1)
}

func TestMovieRepo(t *testing.T) {
	r := NewMovieRepo(openTestDB(t))
	ctx := context.Background()

	ext := "tt0133093"
	a := &domain.Movie{ID: utils.NewID(), Title: "The Matrix", Category: domain.CategoryTopRated, ExternalID: &ext, AddedByAdmin: true}
	b := &domain.Movie{ID: utils.NewID(), Title: "Matrix_Reloaded", Category: domain.CategoryPopular}
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	clash := &domain.Movie{ID: utils.NewID(), Title: "Copy", Category: domain.CategoryPopular, ExternalID: &ext}
	require.ErrorIs(t, r.Create(ctx, clash), domain.ErrConflict)

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	top, err := r.List(ctx, domain.CategoryTopRated)
	require.NoError(t, err)
	require.Len(t, top, 1)

	byExt, err := r.FindByExternalID(ctx, ext)
	require.NoError(t, err)
	require.NotNil(t, byExt)
	assert.Equal(t, a.ID, byExt.ID)

	found, err := r.SearchAdminAdded(ctx, "MATRIX")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	feat, err := r.FindFeatured(ctx)
	require.NoError(t, err)
	assert.Nil(t, feat)

	require.NoError(t, r.Delete(ctx, b.ID))
	require.ErrorIs(t, r.Delete(ctx, b.ID), domain.ErrNotFound)
}

func TestReviewRepo(t *testing.T) {
	r := NewReviewRepo(openTestDB(t))
	ctx := context.Background()

	mk := func(uid, mid string, score int) *domain.Review {
		return &domain.Review{ID: utils.NewID(), UserID: uid, MovieID: mid, Score: score, Message: "m"}
	}
	require.NoError(t, r.Create(ctx, mk("u1", "m1", 3)))
	require.NoError(t, r.Create(ctx, mk("u2", "m1", 5)))
	require.NoError(t, r.Create(ctx, mk("u1", "m2", 1)))
	require.ErrorIs(t, r.Create(ctx, mk("u1", "m1", 4)), domain.ErrDuplicateReview)

	scores, err := r.ScoresByMovie(ctx, []string{"m1", "m2", "m3"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, scores["m1"])
	assert.Equal(t, []int{1}, scores["m2"])
	assert.Empty(t, scores["m3"])

	byUser, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	require.NoError(t, r.DeleteByMovie(ctx, "m1"))
	left, err := r.ListByMovie(ctx, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "m2", left[0].MovieID)

	require.NoError(t, r.Delete(ctx, left[0].ID))
	require.ErrorIs(t, r.Delete(ctx, left[0].ID), domain.ErrNotFound)
}

func TestRatingRepoUpsert(t *testing.T) {
	r := NewRatingRepo(openTestDB(t))
	ctx := context.Background()

	created, err := r.Upsert(ctx, &domain.Rating{UserID: "u1", MovieID: "tt1", Stars: 2})
	require.NoError(t, err)
	assert.True(t, created)

	rt := &domain.Rating{UserID: "u1", MovieID: "tt1", Stars: 4}
	created, err = r.Upsert(ctx, rt)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NotEmpty(t, rt.ID)

	rs, err := r.ListByMovie(ctx, "tt1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, 4, rs[0].Stars)
}
