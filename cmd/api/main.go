package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cinereview/internal/core/auth"
	"cinereview/internal/core/cache"
	"cinereview/internal/core/config"
	"cinereview/internal/core/database"
	"cinereview/internal/core/logger"
	"cinereview/internal/core/server"
	"cinereview/internal/domain"
	"cinereview/internal/repo"
	"cinereview/internal/repo/mongorepo"
	"cinereview/internal/service"
	"cinereview/internal/transport/http/router"
)

type stores struct {
	users   domain.UserRepository
	movies  domain.MovieRepository
	reviews domain.ReviewRepository
	ratings domain.RatingRepository
	ping    func(context.Context) error
	close   func()
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)

	st := mustOpenStores(cfg, log)
	defer st.close()

	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, display names are served uncached", zap.Error(err))
			_ = rc.Close()
			rc = nil
		} else {
			defer rc.Close()
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
		cancel()
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	names := service.NewDisplayNames(st.users, rc, time.Duration(cfg.Redis.UserTTLSec)*time.Second)
	r := router.NewAPIEngine(router.Deps{
		Mode:     ginMode(cfg.App.Env),
		Log:      log,
		HTTP:     cfg.App.HTTP,
		Verifier: jwter,
		Users:    service.NewUserService(st.users, jwter, names, cfg.Auth.AdminEmails, log.Named("users")),
		Movies:   service.NewMovieService(st.movies, st.reviews, log.Named("movies")),
		Reviews:  service.NewReviewService(st.reviews, st.movies, names, log.Named("reviews")),
		Ratings:  service.NewRatingService(st.ratings),
		Ping:     st.ping,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("cinereview api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.String("db_driver", cfg.DB.Driver),
		zap.Int("admin_emails", len(cfg.Auth.AdminEmails)),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("cinereview api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("cinereview api stopped gracefully")
}

func mustOpenStores(cfg *config.Config, l *zap.Logger) stores {
	if cfg.DB.Driver == "mongo" {
		return mustOpenMongo(cfg, l)
	}

	gormLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                gormLog,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Fatal("db handle", zap.Error(err))
	}
	return stores{
		users:   repo.NewUserRepo(db),
		movies:  repo.NewMovieRepo(db),
		reviews: repo.NewReviewRepo(db),
		ratings: repo.NewRatingRepo(db),
		ping:    sqlDB.PingContext,
		close:   func() { _ = sqlDB.Close() },
	}
}

func mustOpenMongo(cfg *config.Config, l *zap.Logger) stores {
	timeout := time.Duration(cfg.Mongo.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
	defer cancel()

	client, mdb, err := database.NewMongo(ctx, database.MongoOpts{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  timeout,
	})
	if err != nil {
		l.Fatal("mongo connect", zap.Error(err))
	}
	if err := mongorepo.EnsureIndexes(ctx, mdb); err != nil {
		l.Fatal("mongo indexes", zap.Error(err))
	}
	l.Info("mongo connected", zap.String("database", cfg.Mongo.Database))

	return stores{
		users:   mongorepo.NewUserRepo(mdb),
		movies:  mongorepo.NewMovieRepo(mdb),
		reviews: mongorepo.NewReviewRepo(mdb),
		ratings: mongorepo.NewRatingRepo(mdb),
		ping:    func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:   func() { _ = client.Disconnect(context.Background()) },
	}
}

func ginMode(env string) string {
	if env == "prod" || env == "production" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
