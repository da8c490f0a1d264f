package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinereview/internal/service"
	"cinereview/internal/transport/http/ez"
)

type RatingHandler struct{ svc *service.RatingService }

func NewRatingHandler(svc *service.RatingService) *RatingHandler { return &RatingHandler{svc: svc} }

type rateIn struct {
	MovieID string `json:"mid"`
	Stars   int    `json:"stars"`
}

type ratingURI struct {
	MovieID string `uri:"movieId" binding:"required"`
}

func (h *RatingHandler) Mount(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[rateIn, *service.RateResult]{
		Method: http.MethodPost,
		Path:   "/ratings",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *rateIn) (*service.RateResult, error) {
			cl, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Rate(c.Request.Context(), cl.ID, in.MovieID, in.Stars)
		},
	})

	ez.RegisterAction(e, ez.Action[ratingURI, *service.RatingAverage]{
		Method: http.MethodGet,
		Path:   "/ratings/:movieId",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *ratingURI) (*service.RatingAverage, error) {
			return h.svc.Average(c.Request.Context(), in.MovieID)
		},
	})
}
