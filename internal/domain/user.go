package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Preferences struct {
	FavoriteGenre    string `gorm:"size:128" bson:"favoriteGenre" json:"favoriteGenre"`
	FavoriteMovie    string `gorm:"size:255" bson:"favoriteMovie" json:"favoriteMovie"`
	FavoriteDirector string `gorm:"size:128" bson:"favoriteDirector" json:"favoriteDirector"`
}

type User struct {
	ID           string      `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Email        string      `gorm:"uniqueIndex;size:191;not null" bson:"email" json:"email"`
	Name         string      `gorm:"size:64;not null" bson:"name" json:"name"`
	PasswordHash string      `gorm:"size:100;not null" bson:"passwordHash" json:"-"`
	Role         string      `gorm:"size:16;not null;default:user" bson:"role" json:"role"`
	Preferences  Preferences `gorm:"embedded" bson:"preferences" json:"preferences"`
	AvatarURL    string      `gorm:"size:512" bson:"avatarUrl" json:"avatarUrl"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Profile is the public projection of a User.
type Profile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	FavoriteGenre    string `json:"favoriteGenre"`
	FavoriteMovie    string `json:"favoriteMovie"`
	FavoriteDirector string `json:"favoriteDirector"`
	AvatarURL        string `json:"avatarUrl"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		FavoriteGenre:    u.Preferences.FavoriteGenre,
		FavoriteMovie:    u.Preferences.FavoriteMovie,
		FavoriteDirector: u.Preferences.FavoriteDirector,
		AvatarURL:        u.AvatarURL,
	}
}

// UserRepository finders return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	Update(ctx context.Context, u *User) error
}
