package mongorepo

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"cinereview/internal/core/database"
	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

// openTestDB connects to APP_MONGO_URI and hands out a throwaway database per test.
func openTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("APP_MONGO_URI")
	if uri == "" {
		t.Skip("APP_MONGO_URI not set")
	}
	ctx := context.Background()
	name := "cinereview_test_" + strings.ReplaceAll(utils.NewID(), "-", "")
	client, db, err := database.NewMongo(ctx, database.MongoOpts{URI: uri, Database: name, Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestContainsFoldQuotesTerm(t *testing.T) {
	got := containsFold("a.b*")
	assert.Equal(t, `a\.b\*`, got["$regex"])
	assert.Equal(t, "i", got["$options"])
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

	// an unchanged document still counts as found
	require.NoError(t, r.Update(ctx, again))

	ghost := &domain.User{ID: "ghost", Name: "G", Email: "g@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.ErrorIs(t, r.Update(ctx, ghost), domain.ErrNotFound)

	bo := &domain.User{ID: utils.NewID(), Name: "Bo", Email: "bo@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, r.Create(ctx, bo))
	bo.Email = "ann@example.com"
	require.ErrorIs(t, r.Update(ctx, bo), domain.ErrConflict)

	us, err := r.FindByIDs(ctx, []string{u.ID, "nope"})
	require.NoError(t, err)
	assert.Len(t, us, 1)
}

func TestMovieRepo(t *testing.T) {
	r := NewMovieRepo(openTestDB(t))
	ctx := context.Background()

	ext := "tt0133093"
	a := &domain.Movie{ID: utils.NewID(), Title: "The Matrix", Category: domain.CategoryTopRated, ExternalID: &ext, AddedByAdmin: true}
	b := &domain.Movie{ID: utils.NewID(), Title: "Matrix.Reloaded", Category: domain.CategoryPopular}
	c := &domain.Movie{ID: utils.NewID(), Title: "Heat", Category: domain.CategoryPopular}
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))
	// the imdbID index is sparse, so several movies may lack one
	require.NoError(t, r.Create(ctx, c))

	clash := &domain.Movie{ID: utils.NewID(), Title: "Copy", Category: domain.CategoryPopular, ExternalID: &ext}
	require.ErrorIs(t, r.Create(ctx, clash), domain.ErrConflict)

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	popular, err := r.List(ctx, domain.CategoryPopular)
	require.NoError(t, err)
	require.Len(t, popular, 2)

	byExt, err := r.FindByExternalID(ctx, ext)
	require.NoError(t, err)
	require.NotNil(t, byExt)
	assert.Equal(t, a.ID, byExt.ID)

	found, err := r.SearchAdminAdded(ctx, "MATRIX")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	// the term is literal, not a pattern
	none, err := r.SearchAdminAdded(ctx, "The.Matrix")
	require.NoError(t, err)
	assert.Empty(t, none)

	feat, err := r.FindFeatured(ctx)
	require.NoError(t, err)
	assert.Nil(t, feat)

	b.IsFeatured = true
	require.NoError(t, r.Update(ctx, b))
	time.Sleep(5 * time.Millisecond)
	c.IsFeatured = true
	require.NoError(t, r.Update(ctx, c))
	feat, err = r.FindFeatured(ctx)
	require.NoError(t, err)
	require.NotNil(t, feat)
	assert.Equal(t, c.ID, feat.ID)

	require.NoError(t, r.Delete(ctx, b.ID))
	require.ErrorIs(t, r.Delete(ctx, b.ID), domain.ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, b), domain.ErrNotFound)
}

func TestReviewRepo(t *testing.T) {
	r := NewReviewRepo(openTestDB(t))
	ctx := context.Background()

	mk := func(uid, mid string, score int) *domain.Review {
		return &domain.Review{ID: utils.NewID(), UserID: uid, MovieID: mid, Score: score, Message: "m"}
	}
	first := mk("u1", "m1", 3)
	require.NoError(t, r.Create(ctx, first))
	require.NoError(t, r.Create(ctx, mk("u2", "m1", 5)))
	require.NoError(t, r.Create(ctx, mk("u1", "m2", 1)))
	require.ErrorIs(t, r.Create(ctx, mk("u1", "m1", 4)), domain.ErrDuplicateReview)

	one, err := r.FindOne(ctx, "u1", "m1")
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, first.ID, one.ID)

	byMovie, err := r.ListByMovie(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, byMovie, 2)
	assert.Equal(t, []string{"u1", "u2"}, []string{byMovie[0].UserID, byMovie[1].UserID})

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

	first := &domain.Rating{UserID: "u1", MovieID: "tt1", Stars: 2}
	created, err := r.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotEmpty(t, first.ID)

	rt := &domain.Rating{UserID: "u1", MovieID: "tt1", Stars: 4}
	created, err = r.Upsert(ctx, rt)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, rt.ID)
	assert.Equal(t, 4, rt.Stars)

	created, err = r.Upsert(ctx, &domain.Rating{UserID: "u2", MovieID: "tt1", Stars: 5})
	require.NoError(t, err)
	assert.True(t, created)

	rs, err := r.ListByMovie(ctx, "tt1")
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, []int{4, 5}, []int{rs[0].Stars, rs[1].Stars})
}
