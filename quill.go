// Package quill is the API server of a personal blog. It stores posts,
// categories and the author profile as whole JSON documents, keeps them in
// canonical shape on every read and write, and accepts inline image uploads.
package quill

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/quill/docstore"
	"github.com/eringen/quill/journal"
	"github.com/eringen/quill/media"
)

// App wires the store, the services and the HTTP server together.
type App struct {
	Config     Config
	Echo       *echo.Echo
	Store      *Store
	Categories *Categories
	Posts      *Posts
	Journal    *journal.Journal
	Log        *zap.Logger

	backend     docstore.Backend
	ownsBackend bool
	sink        media.Sink
	limiter     *RateLimiter
	local       *Localizer
	now         func() time.Time
}

// New builds an App from cfg. Storage, logging and the upload sink come from
// cfg unless replaced by opts. Nothing is read or seeded until Start or
// Bootstrap.
func New(cfg Config, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		local:  NewLocalizer(),
		now:    time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	if a.Journal == nil {
		a.Journal = journal.New(cfg.LogCapacity, journal.WithPolicy(journal.ParsePolicy(cfg.LogMode)))
	}
	if a.Log == nil {
		log, err := NewLogger(cfg.LogMode, a.Journal)
		if err != nil {
			return nil, fmt.Errorf("quill: init logger: %w", err)
		}
		a.Log = log
	}

	ctx := context.Background()
	if a.backend == nil {
		backend, err := docstore.Open(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("quill: init storage: %w", err)
		}
		a.backend = backend
		a.ownsBackend = true
	}
	if a.sink == nil {
		if cfg.S3.Endpoint != "" {
			sink, err := media.NewS3Sink(ctx, cfg.S3)
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("quill: init upload sink: %w", err)
			}
			a.sink = sink
		} else {
			a.sink = media.NewDiskSink(cfg.UploadDir)
		}
	}

	a.Store = NewStore(a.backend, a.now, a.Log.Named("store"))
	a.Categories = NewCategories(a.Store)
	a.Posts = NewPosts(a.Store, a.Categories)
	a.limiter = NewRateLimiter(cfg.UploadRateLimit, cfg.UploadRateWindow)

	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	api := e.Group("/api")
	api.GET("/health", a.handleHealth)

	api.GET("/categories", a.handleListCategories)
	api.POST("/categories", a.handleCreateCategory)
	api.DELETE("/categories/:name", a.handleDeleteCategory)

	api.GET("/profile", a.handleGetProfile)
	api.PUT("/profile", a.handleUpdateProfile)

	api.GET("/posts", a.handleListPosts)
	api.POST("/posts", a.handleCreatePost)
	api.PUT("/posts/:id", a.handleUpdatePost)
	api.DELETE("/posts/:id", a.handleDeletePost)
	api.GET("/posts/:id/preview", a.handlePreviewPost)

	api.POST("/uploads", a.handleUpload)

	api.GET("/logs", a.handleListLogs)
	api.POST("/logs", a.handleRecordLog)
	api.DELETE("/logs", a.handleClearLogs)

	if _, ok := a.sink.(*media.DiskSink); ok {
		e.Static("/uploads", a.Config.UploadDir)
	}

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
}

// Bootstrap creates any missing document with its seed or default content.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.Store.Bootstrap(ctx); err != nil {
		return fmt.Errorf("quill: bootstrap: %w", err)
	}
	return nil
}

// Start bootstraps the documents and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Bootstrap(context.Background()); err != nil {
		return err
	}
	a.Log.Info("listening",
		zap.String("addr", a.Config.Addr),
		zap.String("storage", a.Config.Storage.Driver),
		zap.String("log_mode", a.Journal.Policy().String()))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases the rate limiter and, when New opened it, the backend.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Close()
	}
	var err error
	if a.ownsBackend && a.backend != nil {
		err = a.backend.Close()
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return err
}
