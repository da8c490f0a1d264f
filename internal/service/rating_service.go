package service

import (
	"context"
	"fmt"
	"strings"

	"cinereview/internal/domain"
)

type RatingService struct {
	ratings domain.RatingRepository
}

func NewRatingService(ratings domain.RatingRepository) *RatingService {
	return &RatingService{ratings: ratings}
}

type RateResult struct {
	Message string        `json:"message"`
	Rating  domain.Rating `json:"rating"`
	Created bool          `json:"-"`
}

type RatingAverage struct {
	Average string `json:"avgRating"`
	Total   int    `json:"totalRatings"`
}

// Rate stores the caller's stars for a movie, replacing any earlier submission.
func (s *RatingService) Rate(ctx context.Context, userID, movieID string, stars int) (*RateResult, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, domain.Validation("missing required fields: movieId")
	}
	if stars < domain.MinScore || stars > domain.MaxScore {
		return nil, domain.Validation("Rating must be between 1 and 5")
	}
	r := &domain.Rating{UserID: userID, MovieID: movieID, Stars: stars}
	created, err := s.ratings.Upsert(ctx, r)
	if err != nil {
		return nil, storeErr("save rating", err)
	}
	msg := "Rating updated"
	if created {
		msg = "Rating submitted"
	}
	return &RateResult{Message: msg, Rating: *r, Created: created}, nil
}

func (s *RatingService) Average(ctx context.Context, movieID string) (*RatingAverage, error) {
	rs, err := s.ratings.ListByMovie(ctx, strings.TrimSpace(movieID))
	if err != nil {
		return nil, storeErr("load ratings", err)
	}
	stars := make([]int, len(rs))
	for i, r := range rs {
		stars[i] = r.Stars
	}
	sum := Summarize(stars)
	return &RatingAverage{Average: fmt.Sprintf("%.1f", sum.Average), Total: sum.Count}, nil
}
