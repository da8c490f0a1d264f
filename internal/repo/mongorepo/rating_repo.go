package mongorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

type RatingRepo struct{ c *mongo.Collection }

func NewRatingRepo(db *mongo.Database) *RatingRepo { return &RatingRepo{c: db.Collection(ratingsColl)} }

// Upsert is a single atomic findOneAndUpdate; the unique (uid, mid) index settles races.
func (r *RatingRepo) Upsert(ctx context.Context, rt *domain.Rating) (bool, error) {
	now := time.Now().UTC()
	if rt.ID == "" {
		rt.ID = utils.NewID()
	}
	update := bson.M{
		"$set":         bson.M{"stars": rt.Stars, "updatedAt": now},
		"$setOnInsert": bson.M{"_id": rt.ID, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)
	err := r.c.FindOneAndUpdate(ctx, bson.M{"uid": rt.UserID, "mid": rt.MovieID}, update, opts).Decode(&domain.Rating{})
	created := false
	switch {
	case err == nil:
	case errors.Is(err, mongo.ErrNoDocuments):
		created = true
	default:
		return false, err
	}
	stored, err := findOne[domain.Rating](ctx, r.c, bson.M{"uid": rt.UserID, "mid": rt.MovieID})
	if err != nil {
		return false, err
	}
	if stored != nil {
		*rt = *stored
	}
	return created, nil
}

func (r *RatingRepo) ListByMovie(ctx context.Context, movieID string) ([]domain.Rating, error) {
	return findAll[domain.Rating](ctx, r.c, bson.M{"mid": movieID})
}
