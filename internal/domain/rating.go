package domain

import (
	"context"
	"time"
)

// Rating is the legacy star rating kept next to Review.Score.
type Rating struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_movie,priority:1" bson:"uid" json:"uid"`
	MovieID   string    `gorm:"size:64;not null;uniqueIndex:idx_ratings_user_movie,priority:2;index" bson:"mid" json:"mid"`
	Stars     int       `gorm:"not null" bson:"stars" json:"stars"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Rating) TableName() string { return "ratings" }

type RatingRepository interface {
	// Upsert stores r keyed by (UserID, MovieID) and reports whether a new row was created.
	Upsert(ctx context.Context, r *Rating) (created bool, err error)
	ListByMovie(ctx context.Context, movieID string) ([]Rating, error)
}
