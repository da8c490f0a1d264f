package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

// Caller identifies who is acting on a review.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) IsAdmin() bool { return c.Role == domain.RoleAdmin }

type ReviewService struct {
	reviews domain.ReviewRepository
	movies  domain.MovieRepository
	names   *DisplayNames
	log     *zap.Logger
}

func NewReviewService(reviews domain.ReviewRepository, movies domain.MovieRepository, names *DisplayNames, log *zap.Logger) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{reviews: reviews, movies: movies, names: names, log: log}
}

// Create stores one review per (user, movie). Score and message are checked before
// any lookup; the storage unique index settles concurrent duplicates.
func (s *ReviewService) Create(ctx context.Context, userID, movieID string, score int, message string) (*domain.Review, error) {
	message = strings.TrimSpace(message)
	switch {
	case userID == "" || movieID == "":
		return nil, domain.Validation("user and movie are required")
	case score < domain.MinScore || score > domain.MaxScore:
		return nil, domain.Validation("score must be between 1 and 5")
	case message == "":
		return nil, domain.Validation("review message is required")
	}

	existing, err := s.reviews.FindOne(ctx, userID, movieID)
	if err != nil {
		return nil, storeErr("create review", err)
	}
	if existing != nil {
		return nil, domain.DuplicateReview("You have already reviewed this movie")
	}
	r := &domain.Review{
		ID:      utils.NewID(),
		UserID:  userID,
		MovieID: movieID,
		Score:   score,
		Message: message,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, storeErr("create review", err)
	}
	return r, nil
}

// ReviewInput is the body of POST /reviews. Either MovieID names an existing movie or
// ExternalID identifies one, creating it from the remaining fields when unseen.
type ReviewInput struct {
	MovieID     string      `json:"mid"`
	ExternalID  string      `json:"imdbID"`
	Score       int         `json:"score"`
	Message     string      `json:"msg"`
	Name        string      `json:"name"`
	Cast        string      `json:"cast"`
	Genre       string      `json:"genre"`
	Duration    string      `json:"duration"`
	Year        domain.Year `json:"year"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
}

func (s *ReviewService) Post(ctx context.Context, userID string, in ReviewInput) (*domain.Review, error) {
	if in.Score < domain.MinScore || in.Score > domain.MaxScore {
		return nil, domain.Validation("score must be between 1 and 5")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.Validation("review message is required")
	}
	movieID, err := s.resolveMovie(ctx, in)
	if err != nil {
		return nil, err
	}
	r, err := s.Create(ctx, userID, movieID, in.Score, in.Message)
	if err != nil {
		return nil, err
	}
	s.log.Info("review created", zap.String("review_id", r.ID), zap.String("movie_id", r.MovieID))
	return r, nil
}

func (s *ReviewService) resolveMovie(ctx context.Context, in ReviewInput) (string, error) {
	if mid := strings.TrimSpace(in.MovieID); mid != "" {
		m, err := s.movies.FindByID(ctx, mid)
		if err != nil {
			return "", storeErr("create review", err)
		}
		if m == nil {
			return "", domain.NotFound("Movie not found")
		}
		return m.ID, nil
	}

	ext := strings.TrimSpace(in.ExternalID)
	if ext == "" {
		return "", domain.Validation("missing required fields: mid")
	}
	m, err := s.movies.FindByExternalID(ctx, ext)
	if err != nil {
		return "", storeErr("create review", err)
	}
	if m != nil {
		return m.ID, nil
	}
	title := strings.TrimSpace(in.Name)
	if title == "" {
		return "", domain.Validation("missing required fields: name")
	}
	m = &domain.Movie{
		ID:          utils.NewID(),
		Title:       title,
		Cast:        strings.TrimSpace(in.Cast),
		Genre:       strings.TrimSpace(in.Genre),
		Duration:    strings.TrimSpace(in.Duration),
		Year:        in.Year,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Category:    domain.DefaultCategory,
		ExternalID:  &ext,
	}
	if err := s.movies.Create(ctx, m); err != nil {
		if domain.KindOf(err) != domain.KindConflict {
			return "", storeErr("create review", err)
		}
		// another request created it first
		again, ferr := s.movies.FindByExternalID(ctx, ext)
		if ferr != nil || again == nil {
			return "", storeErr("create review", err)
		}
		return again.ID, nil
	}
	s.log.Info("movie created from review", zap.String("movie_id", m.ID), zap.String("imdb_id", ext))
	return m.ID, nil
}

func (s *ReviewService) FindOne(ctx context.Context, userID, movieID string) (*domain.Review, error) {
	r, err := s.reviews.FindOne(ctx, userID, movieID)
	if err != nil {
		return nil, storeErr("load review", err)
	}
	return r, nil
}

// FindByMovie lists reviews in insertion order; an empty movieID lists all of them.
func (s *ReviewService) FindByMovie(ctx context.Context, movieID string) ([]domain.ReviewView, error) {
	rs, err := s.reviews.ListByMovie(ctx, strings.TrimSpace(movieID))
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	return s.withNames(ctx, rs)
}

func (s *ReviewService) FindByUser(ctx context.Context, userID string) ([]domain.ReviewView, error) {
	rs, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	return s.withNames(ctx, rs)
}

// Delete lets the author or an admin remove a review.
func (s *ReviewService) Delete(ctx context.Context, caller Caller, reviewID string) error {
	r, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return storeErr("delete review", err)
	}
	if r == nil {
		return domain.NotFound("Review not found")
	}
	if r.UserID != caller.ID && !caller.IsAdmin() {
		return domain.Forbidden("You can only delete your own reviews")
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.NotFound("Review not found")
		}
		return storeErr("delete review", err)
	}
	return nil
}

func (s *ReviewService) withNames(ctx context.Context, rs []domain.Review) ([]domain.ReviewView, error) {
	out := make([]domain.ReviewView, 0, len(rs))
	if len(rs) == 0 {
		return out, nil
	}
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.UserID
	}
	names, err := s.names.Resolve(ctx, ids)
	if err != nil {
		return nil, storeErr("resolve reviewer names", err)
	}
	for _, r := range rs {
		out = append(out, domain.ReviewView{Review: r, UserName: names[r.UserID]})
	}
	return out, nil
}
