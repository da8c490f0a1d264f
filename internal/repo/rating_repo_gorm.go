package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

type RatingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) *RatingRepo { return &RatingRepo{db: db} }

func (r *RatingRepo) Upsert(ctx context.Context, rt *domain.Rating) (bool, error) {
	db := r.db.WithContext(ctx)
	var existing domain.Rating
	err := db.Where("user_id = ? AND movie_id = ?", rt.UserID, rt.MovieID).Take(&existing).Error
	switch {
	case err == nil:
		return false, r.update(db, &existing, rt)
	case !notFound(err):
		return false, err
	}

	if rt.ID == "" {
		rt.ID = utils.NewID()
	}
	err = db.Create(rt).Error
	if err == nil {
		return true, nil
	}
	if !isDupKey(err) {
		return false, err
	}
	// lost a race against a concurrent first submission
	if err := db.Where("user_id = ? AND movie_id = ?", rt.UserID, rt.MovieID).Take(&existing).Error; err != nil {
		return false, err
	}
	return false, r.update(db, &existing, rt)
}

func (r *RatingRepo) update(db *gorm.DB, existing, rt *domain.Rating) error {
	now := time.Now()
	if err := db.Model(existing).Updates(map[string]any{"stars": rt.Stars, "updated_at": now}).Error; err != nil {
		return err
	}
	rt.ID = existing.ID
	rt.CreatedAt = existing.CreatedAt
	rt.UpdatedAt = now
	return nil
}

func (r *RatingRepo) ListByMovie(ctx context.Context, movieID string) ([]domain.Rating, error) {
	var rs []domain.Rating
	err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).Order("id ASC").Find(&rs).Error
	return rs, err
}
