package service

import "cinereview/internal/domain"

type RatingSummary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"reviewCount"`
}

// Summarize returns the mean of scores; an empty input averages to exactly 0.
func Summarize(scores []int) RatingSummary {
	if len(scores) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return RatingSummary{Average: float64(sum) / float64(len(scores)), Count: len(scores)}
}

// SummarizeReviews is Summarize over the scores of rs.
func SummarizeReviews(rs []domain.Review) RatingSummary {
	scores := make([]int, len(rs))
	for i, r := range rs {
		scores[i] = r.Score
	}
	return Summarize(scores)
}

func decorate(m domain.Movie, s RatingSummary) domain.MovieView {
	return domain.MovieView{Movie: m, AverageRating: s.Average, ReviewCount: s.Count}
}
