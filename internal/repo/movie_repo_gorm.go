package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"cinereview/internal/domain"
)

type MovieRepo struct{ db *gorm.DB }

func NewMovieRepo(db *gorm.DB) *MovieRepo { return &MovieRepo{db: db} }

func (r *MovieRepo) Create(ctx context.Context, m *domain.Movie) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if err != nil && isDupKey(err) {
		return domain.Conflict("a movie with this imdbID already exists")
	}
	return err
}

func (r *MovieRepo) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *MovieRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.Movie, error) {
	return r.first(r.db.WithContext(ctx).Where("external_id = ?", externalID))
}

func (r *MovieRepo) FindFeatured(ctx context.Context) (*domain.Movie, error) {
	return r.first(r.db.WithContext(ctx).Where("is_featured = ?", true).Order("updated_at DESC"))
}

func (r *MovieRepo) first(q *gorm.DB) (*domain.Movie, error) {
	var m domain.Movie
	err := q.Take(&m).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovieRepo) List(ctx context.Context, category string) ([]domain.Movie, error) {
	q := r.db.WithContext(ctx).Model(&domain.Movie{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var ms []domain.Movie
	err := q.Order("id ASC").Find(&ms).Error
	return ms, err
}

func (r *MovieRepo) SearchAdminAdded(ctx context.Context, term string) ([]domain.Movie, error) {
	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	var ms []domain.Movie
	err := r.db.WithContext(ctx).
		Where("added_by_admin = ?", true).
		Where("LOWER(title) LIKE ? ESCAPE '!'", like).
		Order("id ASC").
		Find(&ms).Error
	return ms, err
}

func (r *MovieRepo) Update(ctx context.Context, m *domain.Movie) error {
	res := r.db.WithContext(ctx).Model(m).Select("*").Omit("created_at").Updates(m)
	if res.Error != nil {
		if isDupKey(res.Error) {
			return domain.Conflict("a movie with this imdbID already exists")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Movie{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
