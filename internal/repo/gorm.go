package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"cinereview/internal/domain"
)

// Models lists every table owned by the gorm repositories.
func Models() []any {
	return []any{&domain.User{}, &domain.Movie{}, &domain.Review{}, &domain.Rating{}}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// escapeLike escapes LIKE wildcards with '!', which every supported dialect accepts
// as an ESCAPE character without quoting rules.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// ErrEmailTaken is returned by UserRepo on a unique email violation.
var ErrEmailTaken = domain.Conflict("Email already in use.")
