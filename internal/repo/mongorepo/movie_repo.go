package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"cinereview/internal/domain"
)

type MovieRepo struct{ c *mongo.Collection }

func NewMovieRepo(db *mongo.Database) *MovieRepo { return &MovieRepo{c: db.Collection(moviesColl)} }

func (r *MovieRepo) Create(ctx context.Context, m *domain.Movie) error {
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	_, err := r.c.InsertOne(ctx, m)
	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflict("a movie with this imdbID already exists")
	}
	return err
}

func (r *MovieRepo) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	return findOne[domain.Movie](ctx, r.c, bson.M{"_id": id})
}

func (r *MovieRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.Movie, error) {
	return findOne[domain.Movie](ctx, r.c, bson.M{"imdbID": externalID})
}

func (r *MovieRepo) FindFeatured(ctx context.Context) (*domain.Movie, error) {
	return findOne[domain.Movie](ctx, r.c, bson.M{"isFeatured": true},
		options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
}

func (r *MovieRepo) List(ctx context.Context, category string) ([]domain.Movie, error) {
	filter := bson.M{}
	if category != "" {
		filter["type"] = category
	}
	return findAll[domain.Movie](ctx, r.c, filter)
}

func (r *MovieRepo) SearchAdminAdded(ctx context.Context, term string) ([]domain.Movie, error) {
	return findAll[domain.Movie](ctx, r.c, bson.M{"title": containsFold(term), "addedByAdmin": true})
}

func (r *MovieRepo) Update(ctx context.Context, m *domain.Movie) error {
	m.UpdatedAt = time.Now().UTC()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflict("a movie with this imdbID already exists")
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
