package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"
)

const (
	CategoryTopRated  = "Top Rated"
	CategoryPopular   = "Popular Movies"
	CategoryTrending  = "Trending This Week"
	CategoryTVShows   = "TV Shows"
	CategoryWebSeries = "Web Series"
	DefaultCategory   = CategoryPopular
)

var Categories = []string{
	CategoryTopRated, CategoryPopular, CategoryTrending, CategoryTVShows, CategoryWebSeries,
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Year accepts both 2010 and "2010" (or "2010–2013") in JSON.
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*y = 0
		return nil
	}
	if b[0] != '"' {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*y = Year(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return err
	}
	*y = Year(n)
	return nil
}

type Movie struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title        string    `gorm:"size:255;not null" bson:"title" json:"title"`
	Cast         string    `gorm:"size:1024" bson:"cast" json:"cast"`
	Genre        string    `gorm:"size:255" bson:"genre" json:"genre"`
	Duration     string    `gorm:"size:64" bson:"duration" json:"duration"`
	Year         Year      `bson:"year" json:"year"`
	Description  string    `gorm:"type:text" bson:"description" json:"description"`
	ImageURL     string    `gorm:"size:512" bson:"imageUrl" json:"imageUrl"`
	Category     string    `gorm:"size:32;index;not null" bson:"type" json:"type"`
	ExternalID   *string   `gorm:"uniqueIndex;size:32" bson:"imdbID,omitempty" json:"imdbID,omitempty"`
	IsFeatured   bool      `gorm:"index" bson:"isFeatured" json:"isFeatured"`
	AddedByAdmin bool      `bson:"addedByAdmin" json:"addedByAdmin"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Movie) TableName() string { return "movies" }

// MovieView is a Movie decorated with its review aggregate.
type MovieView struct {
	Movie
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// MovieRepository finders return (nil, nil) when nothing matches; Update and Delete
// return ErrNotFound for a missing id.
type MovieRepository interface {
	Create(ctx context.Context, m *Movie) error
	FindByID(ctx context.Context, id string) (*Movie, error)
	FindByExternalID(ctx context.Context, externalID string) (*Movie, error)
	List(ctx context.Context, category string) ([]Movie, error)
	FindFeatured(ctx context.Context) (*Movie, error)
	SearchAdminAdded(ctx context.Context, term string) ([]Movie, error)
	Update(ctx context.Context, m *Movie) error
	Delete(ctx context.Context, id string) error
}
