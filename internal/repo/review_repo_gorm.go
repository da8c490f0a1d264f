package repo

import (
	"context"

	"gorm.io/gorm"

	"cinereview/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.WithContext(ctx).Create(rv).Error
	if err != nil && isDupKey(err) {
		return domain.DuplicateReview("You have already reviewed this movie")
	}
	return err
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ReviewRepo) FindOne(ctx context.Context, userID, movieID string) (*domain.Review, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID))
}

func (r *ReviewRepo) first(q *gorm.DB) (*domain.Review, error) {
	var rv domain.Review
	err := q.Take(&rv).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]domain.Review, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{})
	if movieID != "" {
		q = q.Where("movie_id = ?", movieID)
	}
	var rs []domain.Review
	err := q.Order("id ASC").Find(&rs).Error
	return rs, err
}

func (r *ReviewRepo) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	var rs []domain.Review
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&rs).Error
	return rs, err
}

func (r *ReviewRepo) ScoresByMovie(ctx context.Context, movieIDs []string) (map[string][]int, error) {
	out := make(map[string][]int, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}
	type row struct {
		MovieID string
		Score   int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("movie_id, score").
		Where("movie_id IN ?", movieIDs).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.MovieID] = append(out[rw.MovieID], rw.Score)
	}
	return out, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) DeleteByMovie(ctx context.Context, movieID string) error {
	return r.db.WithContext(ctx).Where("movie_id = ?", movieID).Delete(&domain.Review{}).Error
}
