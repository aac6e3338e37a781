package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-console/internal/catalog"
	"github.com/iliyamo/movie-console/internal/config"
	"github.com/iliyamo/movie-console/internal/database"
	"github.com/iliyamo/movie-console/internal/handler"
	"github.com/iliyamo/movie-console/internal/logging"
	"github.com/iliyamo/movie-console/internal/middleware"
	"github.com/iliyamo/movie-console/internal/moviesapi"
	"github.com/iliyamo/movie-console/internal/notify"
	"github.com/iliyamo/movie-console/internal/queue"
	"github.com/iliyamo/movie-console/internal/repository"
	"github.com/iliyamo/movie-console/internal/router"
	"github.com/iliyamo/movie-console/internal/service"
	"github.com/iliyamo/movie-console/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis: unavailable; catalog sharing and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	store, closeStore, err := openSessionStore(ctx, cfg, rdb, log)
	if err != nil {
		log.WithError(err).Fatal("session store")
	}
	defer closeStore()

	api := moviesapi.New(cfg.APIURL, cfg.APITimeout)

	cc := config.LoadCatalogConfig()
	opts := []catalog.Option{catalog.WithLogger(log), catalog.WithMaxAge(cc.TTL)}
	if snap := catalog.NewRedisSnapshot(cc, rdb); snap != nil {
		opts = append(opts, catalog.WithSnapshot(snap))
	}
	cat := catalog.New(api, opts...)
	go watchCatalog(ctx, cat, log)

	origin := uuid.NewString()
	var events service.EventPublisher
	if ec := config.LoadEventsConfig(); ec.Enabled {
		events = &service.AMQPPublisher{URL: ec.URL, Exchange: ec.Exchange, Log: log}
		consumer := &queue.Consumer{
			URL:      ec.URL,
			Exchange: ec.Exchange,
			LogDir:   ec.LogDir,
			Origin:   origin,
			Log:      log,
			OnChange: func(ctx context.Context, ev queue.MovieChangedEvent) {
				cat.Invalidate(ctx)
			},
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("events-consumer: stopped")
			}
		}()
	}
	movies := service.NewMovieService(api, cat, events, origin, log)

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.SessionCookie,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
		Logger:     log,
	})
	sessions.OnChange(func(c echo.Context, s *session.Session) {
		entry := log.WithField("ip", c.RealIP())
		if s.Authenticated() {
			entry.WithFields(logrus.Fields{"user_id": s.Claims().UserID, "role": s.Role()}).Info("session: logged in")
		} else {
			entry.Info("session: logged out")
		}
	})

	renderer, err := handler.NewRenderer(cfg.AssetBaseURL)
	if err != nil {
		log.WithError(err).Fatal("templates")
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(notify.Load())
	e.Use(sessions.Load())
	e.Use(middleware.ExposeIdentity())
	e.Use(logging.RequestLogger(log))

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, handler.NewHealthHandler(cat))
	router.RegisterAuth(e, handler.NewAuthHandler(api, sessions, log), limit)
	router.RegisterCatalog(e, handler.NewCatalogHandler(cat, log))
	router.RegisterMovies(e, handler.NewMovieHandler(movies, cat, log), limit)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "api": cfg.APIURL}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// openSessionStore builds the configured store.  The returned func
// releases whatever the store holds open.
func openSessionStore(ctx context.Context, cfg config.Config, rdb *redis.Client, log logrus.FieldLogger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		if rdb == nil {
			return nil, nil, errors.New("SESSION_STORE=redis but redis is unavailable")
		}
		return session.NewRedisStore(rdb, "session"), func() {}, nil
	case "mysql":
		db, err := database.Open(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		repo := repository.NewSessionRepo(db)
		go purgeSessions(ctx, repo, log)
		return repo, func() { _ = db.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}

func purgeSessions(ctx context.Context, repo *repository.SessionRepo, log logrus.FieldLogger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("sessions: purge failed")
				continue
			}
			if n > 0 {
				log.WithField("rows", n).Debug("sessions: purged expired")
			}
		}
	}
}

// watchCatalog logs every catalog change at debug level.
func watchCatalog(ctx context.Context, cat *catalog.Service, log logrus.FieldLogger) {
	ch, cancel := cat.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			log.WithField("loaded", cat.Loaded()).Debug("catalog: changed")
		}
	}
}
