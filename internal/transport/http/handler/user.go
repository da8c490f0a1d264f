package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinereview/internal/domain"
	"cinereview/internal/service"
	"cinereview/internal/transport/http/ez"
)

type UserHandler struct{ svc *service.UserService }

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileOut struct {
	Message string          `json:"message"`
	User    *domain.Profile `json:"user"`
}

// Mount registers /users routes on e.
func (h *UserHandler) Mount(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[service.RegisterInput, profileOut]{
		Method: http.MethodPost,
		Path:   "/users/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (profileOut, error) {
			p, err := h.svc.Register(c.Request.Context(), *in)
			if err != nil {
				return profileOut{}, err
			}
			return profileOut{Message: "User registered successfully", User: p}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/users/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.LoginResult, error) {
			return h.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/users/profile",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			cl, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Profile(c.Request.Context(), cl.ID)
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProfileUpdate, profileOut]{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProfileUpdate) (profileOut, error) {
			cl, err := ez.Caller(c)
			if err != nil {
				return profileOut{}, err
			}
			p, err := h.svc.UpdateProfile(c.Request.Context(), cl.ID, *in)
			if err != nil {
				return profileOut{}, err
			}
			return profileOut{Message: "Profile updated successfully", User: p}, nil
		},
	})
}
