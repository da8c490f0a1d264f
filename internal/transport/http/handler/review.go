package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinereview/internal/domain"
	"cinereview/internal/service"
	"cinereview/internal/transport/http/ez"
	resp "cinereview/internal/transport/http/response"
)

type ReviewHandler struct{ svc *service.ReviewService }

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler { return &ReviewHandler{svc: svc} }

type reviewsQ struct {
	MovieID string `form:"mid"`
}

type reviewsURI struct {
	MovieID string `uri:"mid" binding:"required"`
}

// Mount registers /reviews routes on e. /reviews/user is static and wins over /reviews/:mid.
func (h *ReviewHandler) Mount(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.ReviewView]{
		Method: http.MethodGet,
		Path:   "/reviews/user",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ReviewView, error) {
			cl, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.FindByUser(c.Request.Context(), cl.ID)
		},
	})

	ez.RegisterAction(e, ez.Action[reviewsQ, []domain.ReviewView]{
		Method: http.MethodGet,
		Path:   "/reviews",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *reviewsQ) ([]domain.ReviewView, error) {
			return h.svc.FindByMovie(c.Request.Context(), in.MovieID)
		},
	})

	ez.RegisterAction(e, ez.Action[reviewsURI, []domain.ReviewView]{
		Method: http.MethodGet,
		Path:   "/reviews/:mid",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *reviewsURI) ([]domain.ReviewView, error) {
			return h.svc.FindByMovie(c.Request.Context(), in.MovieID)
		},
	})

	ez.RegisterAction(e, ez.Action[service.ReviewInput, *domain.Review]{
		Method: http.MethodPost,
		Path:   "/reviews",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ReviewInput) (*domain.Review, error) {
			cl, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Post(c.Request.Context(), cl.ID, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Body]{
		Method: http.MethodDelete,
		Path:   "/reviews/:id",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Body, error) {
			cl, err := ez.Caller(c)
			if err != nil {
				return resp.Body{}, err
			}
			caller := service.Caller{ID: cl.ID, Role: cl.Role}
			if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
				return resp.Body{}, err
			}
			return resp.Msg("Review deleted successfully"), nil
		},
	})
}
