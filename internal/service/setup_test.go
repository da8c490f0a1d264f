package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cinereview/internal/core/auth"
	"cinereview/internal/core/cache"
	"cinereview/internal/core/database"
	"cinereview/internal/domain"
	"cinereview/internal/repo"
	"cinereview/pkg/utils"
)

type fixture struct {
	db      *gorm.DB
	users   *repo.UserRepo
	movies  *repo.MovieRepo
	reviews *repo.ReviewRepo
	ratings *repo.RatingRepo
	jwt     *auth.JWTer

	Users   *UserService
	Movies  *MovieService
	Reviews *ReviewService
	Ratings *RatingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith builds the services with display names cached in c when non-nil.
func newFixtureWith(t *testing.T, c *cache.Cache) *fixture {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), database.Opts{Driver: "sqlite", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:      db,
		users:   repo.NewUserRepo(db),
		movies:  repo.NewMovieRepo(db),
		reviews: repo.NewReviewRepo(db),
		ratings: repo.NewRatingRepo(db),
		jwt:     &auth.JWTer{Secret: []byte("test-secret"), Issuer: "cinereview", TTL: time.Hour},
	}
	names := NewDisplayNames(f.users, c, 0)
	f.Users = NewUserService(f.users, f.jwt, names, []string{"Boss@Example.com"}, nil)
	f.Movies = NewMovieService(f.movies, f.reviews, nil)
	f.Reviews = NewReviewService(f.reviews, f.movies, names, nil)
	f.Ratings = NewRatingService(f.ratings)
	return f
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword("pw-" + name)
	require.NoError(t, err)
	u := &domain.User{ID: utils.NewID(), Name: name, Email: name + "@example.com", PasswordHash: hash, Role: domain.RoleUser}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) movie(t *testing.T, title string, adminAdded bool) *domain.Movie {
	t.Helper()
	m := &domain.Movie{
		ID:           utils.NewID(),
		Title:        title,
		Category:     domain.CategoryPopular,
		AddedByAdmin: adminAdded,
	}
	require.NoError(t, f.movies.Create(context.Background(), m))
	return m
}

func validMovieInput(title string) MovieInput {
	return MovieInput{
		Title:       title,
		Cast:        "Leonardo DiCaprio",
		Genre:       "Sci-Fi",
		Duration:    "148 min",
		Year:        2010,
		Description: "A thief who steals secrets through dreams.",
		ImageURL:    "https://img.example.com/inception.jpg",
		Category:    domain.CategoryTopRated,
	}
}
