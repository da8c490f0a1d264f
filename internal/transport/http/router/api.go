package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"cinereview/internal/core/config"
	"cinereview/internal/core/server"
	"cinereview/internal/service"
	"cinereview/internal/transport/http/ez"
	"cinereview/internal/transport/http/handler"
	mdw "cinereview/internal/transport/http/middleware"
	resp "cinereview/internal/transport/http/response"
)

// Per-IP budget for register/login.
const (
	authRPS   = 5
	authBurst = 10
)

type Deps struct {
	// Mode is the gin mode; empty keeps the current one.
	Mode     string
	Log      *zap.Logger
	HTTP     config.HTTP
	Verifier mdw.Verifier

	Users   *service.UserService
	Movies  *service.MovieService
	Reviews *service.ReviewService
	Ratings *service.RatingService

	// Ping backs /health when set.
	Ping func(context.Context) error
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	h := d.HTTP
	r := server.NewRouter(server.Options{Mode: d.Mode, CORSOrigins: h.CORSOrigins})

	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.RateLimit(rate.Limit(orFloat(h.RateLimitRPS, 200)), orInt(h.RateLimitBurst, 400)),
		mdw.ConcurrencyLimit(orInt64(h.MaxConcurrent, 300)),
		mdw.MaxBodyBytes(orInt64(h.MaxBodyBytes, 1<<20)),
		mdw.Timeout(time.Duration(orInt(h.RequestTimeoutSec, 10))*time.Second),
	)

	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "Not Found") })

	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				l.Warn("health check failed", zap.Error(err))
				resp.Abort(c, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	throttled := api.Group("", mdw.RateLimitPerIP(authRPS, authBurst))

	if d.Users != nil {
		handler.NewUserHandler(d.Users).Mount(ez.New(throttled, d.Verifier, l))
	}

	var reg Registry
	if d.Movies != nil {
		reg.Register(handler.NewMovieHandler(d.Movies))
	}
	if d.Reviews != nil {
		reg.Register(handler.NewReviewHandler(d.Reviews))
	}
	if d.Ratings != nil {
		reg.Register(handler.NewRatingHandler(d.Ratings))
	}
	reg.MountAll(ez.New(api, d.Verifier, l))

	return r
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orInt64(v, def int64) int64 {
	if v > 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
