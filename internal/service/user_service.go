package service

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cinereview/internal/domain"
	"cinereview/pkg/utils"
)

const msgBadLogin = "Invalid email or password"

type TokenIssuer interface {
	Issue(id, name, role string) (string, error)
}

type UserService struct {
	users       domain.UserRepository
	tokens      TokenIssuer
	names       *DisplayNames
	adminEmails map[string]struct{}
	validate    *validator.Validate
	log         *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(users domain.UserRepository, tokens TokenIssuer, names *DisplayNames, adminEmails []string, log *zap.Logger) *UserService {
	allow := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			allow[e] = struct{}{}
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		users:       users,
		tokens:      tokens,
		names:       names,
		adminEmails: allow,
		validate:    newValidator(),
		log:         log,
	}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if in.Role == domain.RoleAdmin {
		if _, ok := s.adminEmails[in.Email]; !ok {
			return nil, domain.Forbidden("Unauthorized: Admin registration is restricted.")
		}
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeErr("register", err)
	}
	if existing != nil {
		return nil, domain.Conflict("User already exists")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Unavailable("register failed", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storeErr("register", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", u.Role))
	p := u.Profile()
	return &p, nil
}

type LoginResult struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeErr("login", err)
	}
	if u == nil {
		// keep the unknown-email path as slow as a real comparison
		utils.CheckPassword(password, s.timingHash())
		return nil, domain.InvalidCredential(msgBadLogin)
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.InvalidCredential(msgBadLogin)
	}
	tok, err := s.tokens.Issue(u.ID, u.Name, u.Role)
	if err != nil {
		return nil, domain.Unavailable("issue token failed", err)
	}
	return &LoginResult{Token: tok, User: u.Profile()}, nil
}

func (s *UserService) timingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword(utils.NewID())
	})
	return s.dummyHash
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("load profile", err)
	}
	if u == nil {
		return nil, domain.NotFound("User not found")
	}
	p := u.Profile()
	return &p, nil
}

// ProfileUpdate applies only the fields that are non-nil. An empty AvatarURL clears it.
type ProfileUpdate struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	FavoriteGenre    *string `json:"favoriteGenre"`
	FavoriteMovie    *string `json:"favoriteMovie"`
	FavoriteDirector *string `json:"favoriteDirector"`
	AvatarURL        *string `json:"avatarUrl"`
	Password         *string `json:"password"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("update profile", err)
	}
	if u == nil {
		return nil, domain.NotFound("User not found")
	}
	oldName := u.Name

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := s.validate.Var(name, "required,max=64"); err != nil {
			return nil, domain.Validation("name must be 1-64 characters")
		}
		u.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := s.validate.Var(email, "required,email,max=191"); err != nil {
			return nil, domain.Validation("a valid email is required")
		}
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, storeErr("update profile", err)
			}
			if other != nil && other.ID != u.ID {
				return nil, domain.Conflict("Email already in use.")
			}
			u.Email = email
		}
	}
	if in.FavoriteGenre != nil {
		u.Preferences.FavoriteGenre = strings.TrimSpace(*in.FavoriteGenre)
	}
	if in.FavoriteMovie != nil {
		u.Preferences.FavoriteMovie = strings.TrimSpace(*in.FavoriteMovie)
	}
	if in.FavoriteDirector != nil {
		u.Preferences.FavoriteDirector = strings.TrimSpace(*in.FavoriteDirector)
	}
	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		if avatar != "" {
			if err := s.validate.Var(avatar, "max=512"); err != nil {
				return nil, domain.Validation("avatarUrl is too long")
			}
		}
		u.AvatarURL = avatar
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) > 72 {
			return nil, domain.Validation("password is too long")
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, domain.Unavailable("update profile failed", err)
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NotFound("User not found")
		}
		return nil, storeErr("update profile", err)
	}
	if u.Name != oldName && s.names != nil {
		if err := s.names.Forget(ctx, u.ID); err != nil {
			s.log.Warn("drop cached display name", zap.String("user_id", u.ID), zap.Error(err))
		}
	}
	p := u.Profile()
	return &p, nil
}
