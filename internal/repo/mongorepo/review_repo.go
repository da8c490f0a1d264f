package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"cinereview/internal/domain"
)

type ReviewRepo struct{ c *mongo.Collection }

func NewReviewRepo(db *mongo.Database) *ReviewRepo { return &ReviewRepo{c: db.Collection(reviewsColl)} }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	now := time.Now().UTC()
	rv.CreatedAt, rv.UpdatedAt = now, now
	_, err := r.c.InsertOne(ctx, rv)
	if mongo.IsDuplicateKeyError(err) {
		return domain.DuplicateReview("You have already reviewed this movie")
	}
	return err
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	return findOne[domain.Review](ctx, r.c, bson.M{"_id": id})
}

func (r *ReviewRepo) FindOne(ctx context.Context, userID, movieID string) (*domain.Review, error) {
	return findOne[domain.Review](ctx, r.c, bson.M{"uid": userID, "mid": movieID})
}

func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]domain.Review, error) {
	filter := bson.M{}
	if movieID != "" {
		filter["mid"] = movieID
	}
	return findAll[domain.Review](ctx, r.c, filter)
}

func (r *ReviewRepo) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return findAll[domain.Review](ctx, r.c, bson.M{"uid": userID})
}

func (r *ReviewRepo) ScoresByMovie(ctx context.Context, movieIDs []string) (map[string][]int, error) {
	out := make(map[string][]int, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}
	opts := options.Find().
		SetProjection(bson.M{"mid": 1, "score": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.c.Find(ctx, bson.M{"mid": bson.M{"$in": movieIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			MovieID string `bson:"mid"`
			Score   int    `bson:"score"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.MovieID] = append(out[row.MovieID], row.Score)
	}
	return out, cur.Err()
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) DeleteByMovie(ctx context.Context, movieID string) error {
	_, err := r.c.DeleteMany(ctx, bson.M{"mid": movieID})
	return err
}
