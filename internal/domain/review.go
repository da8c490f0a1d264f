package domain

import (
	"context"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

type Review struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_movie,priority:1" bson:"uid" json:"uid"`
	MovieID   string    `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_movie,priority:2;index" bson:"mid" json:"mid"`
	Score     int       `gorm:"not null" bson:"score" json:"score"`
	Message   string    `gorm:"type:text;not null" bson:"msg" json:"msg"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Review) TableName() string { return "reviews" }

// ReviewView carries the author's display name resolved at read time.
type ReviewView struct {
	Review
	UserName string `json:"userName"`
}

// ReviewRepository finders return (nil, nil) when nothing matches. Create returns
// ErrDuplicateReview when (UserID, MovieID) already exists; Delete returns ErrNotFound.
type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id string) (*Review, error)
	FindOne(ctx context.Context, userID, movieID string) (*Review, error)
	ListByMovie(ctx context.Context, movieID string) ([]Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	ScoresByMovie(ctx context.Context, movieIDs []string) (map[string][]int, error)
	Delete(ctx context.Context, id string) error
	DeleteByMovie(ctx context.Context, movieID string) error
}
