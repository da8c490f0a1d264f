package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinereview/internal/domain"
	"cinereview/internal/service"
	"cinereview/internal/transport/http/ez"
	resp "cinereview/internal/transport/http/response"
)

type MovieHandler struct{ svc *service.MovieService }

func NewMovieHandler(svc *service.MovieService) *MovieHandler { return &MovieHandler{svc: svc} }

type listMoviesQ struct {
	Type string `form:"type"`
}

type searchQ struct {
	Query string `form:"query"`
}

type movieURI struct {
	ID string `uri:"id" binding:"required"`
}

// Mount registers /movies routes on e. Static segments are registered before /:id.
func (h *MovieHandler) Mount(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[listMoviesQ, []domain.MovieView]{
		Method: http.MethodGet,
		Path:   "/movies",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listMoviesQ) ([]domain.MovieView, error) {
			return h.svc.List(c.Request.Context(), in.Type)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.MovieView]{
		Method: http.MethodGet,
		Path:   "/movies/featured",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.MovieView, error) {
			return h.svc.Featured(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[searchQ, *service.SearchResult]{
		Method: http.MethodGet,
		Path:   "/movies/search",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *searchQ) (*service.SearchResult, error) {
			return h.svc.Search(c.Request.Context(), in.Query)
		},
	})

	ez.RegisterAction(e, ez.Action[movieURI, *domain.MovieView]{
		Method: http.MethodGet,
		Path:   "/movies/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *movieURI) (*domain.MovieView, error) {
			return h.svc.Get(c.Request.Context(), in.ID)
		},
	})

	ez.RegisterAction(e, ez.Action[service.MovieInput, *domain.MovieView]{
		Method: http.MethodPost,
		Path:   "/movies",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *service.MovieInput) (*domain.MovieView, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.MovieInput, *domain.MovieView]{
		Method: http.MethodPut,
		Path:   "/movies/:id",
		Binder: ez.BindJSON,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *service.MovieInput) (*domain.MovieView, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[movieURI, resp.Body]{
		Method: http.MethodDelete,
		Path:   "/movies/:id",
		Binder: ez.BindURI,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *movieURI) (resp.Body, error) {
			if err := h.svc.Delete(c.Request.Context(), in.ID); err != nil {
				return resp.Body{}, err
			}
			return resp.Msg("Movie deleted successfully"), nil
		},
	})
}
