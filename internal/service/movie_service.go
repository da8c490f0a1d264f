package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

const msgNoMovie = "No movie found."

type MovieService struct {
	movies   domain.MovieRepository
	reviews  domain.ReviewRepository
	validate *validator.Validate
	log      *zap.Logger
}

func NewMovieService(movies domain.MovieRepository, reviews domain.ReviewRepository, log *zap.Logger) *MovieService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovieService{movies: movies, reviews: reviews, validate: newValidator(), log: log}
}

// MovieInput is the admin-editable part of a Movie.
type MovieInput struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Cast        string      `json:"cast" validate:"required,max=1024"`
	Genre       string      `json:"genre" validate:"required,max=255"`
	Duration    string      `json:"duration" validate:"required,max=64"`
	Year        domain.Year `json:"year" validate:"required,gt=0"`
	Description string      `json:"description" validate:"required"`
	ImageURL    string      `json:"imageUrl" validate:"required,max=512"`
	Category    string      `json:"type" validate:"required,category"`
	ExternalID  string      `json:"imdbID" validate:"omitempty,max=32"`
	IsFeatured  *bool       `json:"isFeatured"`
}

func (in *MovieInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Cast = strings.TrimSpace(in.Cast)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Category = strings.TrimSpace(in.Category)
	in.ExternalID = strings.TrimSpace(in.ExternalID)
}

func (in *MovieInput) apply(m *domain.Movie) {
	m.Title = in.Title
	m.Cast = in.Cast
	m.Genre = in.Genre
	m.Duration = in.Duration
	m.Year = in.Year
	m.Description = in.Description
	m.ImageURL = in.ImageURL
	m.Category = in.Category
	if in.ExternalID != "" {
		id := in.ExternalID
		m.ExternalID = &id
	}
	if in.IsFeatured != nil {
		m.IsFeatured = *in.IsFeatured
	}
}

// SearchResult always carries a results array; Message is set when it is empty.
type SearchResult struct {
	Message string             `json:"message,omitempty"`
	Results []domain.MovieView `json:"results"`
}

func (s *MovieService) List(ctx context.Context, category string) ([]domain.MovieView, error) {
	category = strings.TrimSpace(category)
	if category != "" && !domain.ValidCategory(category) {
		return nil, domain.Validation("unknown movie type: " + category)
	}
	ms, err := s.movies.List(ctx, category)
	if err != nil {
		return nil, storeErr("list movies", err)
	}
	return s.decorateAll(ctx, ms)
}

func (s *MovieService) Get(ctx context.Context, id string) (*domain.MovieView, error) {
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("load movie", err)
	}
	if m == nil {
		return nil, domain.NotFound("Movie not found")
	}
	return s.decorateOne(ctx, *m)
}

func (s *MovieService) Featured(ctx context.Context) (*domain.MovieView, error) {
	m, err := s.movies.FindFeatured(ctx)
	if err != nil {
		return nil, storeErr("load featured movie", err)
	}
	if m == nil {
		return nil, domain.NotFound("No featured movie found")
	}
	return s.decorateOne(ctx, *m)
}

func (s *MovieService) Search(ctx context.Context, term string) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.Validation("Search query is required")
	}
	ms, err := s.movies.SearchAdminAdded(ctx, term)
	if err != nil {
		return nil, storeErr("search movies", err)
	}
	views, err := s.decorateAll(ctx, ms)
	if err != nil {
		return nil, err
	}
	res := &SearchResult{Results: views}
	if len(views) == 0 {
		res.Message = msgNoMovie
	}
	return res, nil
}

func (s *MovieService) Create(ctx context.Context, in MovieInput) (*domain.MovieView, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	m := &domain.Movie{ID: utils.NewID(), AddedByAdmin: true}
	in.apply(m)
	if err := s.movies.Create(ctx, m); err != nil {
		return nil, storeErr("create movie", err)
	}
	s.log.Info("movie created", zap.String("movie_id", m.ID), zap.String("type", m.Category))
	v := decorate(*m, RatingSummary{})
	return &v, nil
}

func (s *MovieService) Update(ctx context.Context, id string, in MovieInput) (*domain.MovieView, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("update movie", err)
	}
	if m == nil {
		return nil, domain.NotFound("Movie not found")
	}
	in.apply(m)
	if err := s.movies.Update(ctx, m); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NotFound("Movie not found")
		}
		return nil, storeErr("update movie", err)
	}
	return s.decorateOne(ctx, *m)
}

// Delete removes the movie and then its reviews. The two steps are not atomic.
func (s *MovieService) Delete(ctx context.Context, id string) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.NotFound("Movie not found")
		}
		return storeErr("delete movie", err)
	}
	if err := s.reviews.DeleteByMovie(ctx, id); err != nil {
		s.log.Error("delete reviews of removed movie", zap.String("movie_id", id), zap.Error(err))
		return storeErr("delete movie reviews", err)
	}
	s.log.Info("movie deleted", zap.String("movie_id", id))
	return nil
}

func (s *MovieService) decorateOne(ctx context.Context, m domain.Movie) (*domain.MovieView, error) {
	views, err := s.decorateAll(ctx, []domain.Movie{m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *MovieService) decorateAll(ctx context.Context, ms []domain.Movie) ([]domain.MovieView, error) {
	out := make([]domain.MovieView, 0, len(ms))
	if len(ms) == 0 {
		return out, nil
	}
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	scores, err := s.reviews.ScoresByMovie(ctx, ids)
	if err != nil {
		return nil, storeErr("load ratings", err)
	}
	for _, m := range ms {
		out = append(out, decorate(m, Summarize(scores[m.ID])))
	}
	return out, nil
}
