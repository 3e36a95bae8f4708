package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fhuszti/talkcart-medias-go/internal/cache"
	"github.com/fhuszti/talkcart-medias-go/internal/config"
	"github.com/fhuszti/talkcart-medias-go/internal/db"
	"github.com/fhuszti/talkcart-medias-go/internal/handler/api"
	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/metrics"
	cMiddleware "github.com/fhuszti/talkcart-medias-go/internal/middleware"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/renderer"
	mongoRepo "github.com/fhuszti/talkcart-medias-go/internal/repository/mongo"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
	"github.com/fhuszti/talkcart-medias-go/internal/storage"
	"github.com/fhuszti/talkcart-medias-go/internal/task"
	mediaSvc "github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	recorder, err := metrics.New(nil)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to register metrics: %v", err)
		os.Exit(1)
	}

	r := initRouter(ctx)
	auth := initAuth(ctx, cfg)

	backend := initStorage(ctx, cfg, recorder)
	norm := initNormaliser(cfg)
	res := initResolver(ctx, cfg)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	checks := map[string]api.Pinger{}
	deleter := mediaSvc.NewMediaDeleter(backend)
	if cfg.RedisAddr != "" {
		redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		queue := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer func() { _ = redisCache.Close() }()
		defer func() { _ = queue.Close() }()
		ca, dispatcher = redisCache, queue
		checks["redis"] = redisCache.Ping
		logger.Info(ctx, "✅  Redis cache and task queue enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewInlineDispatcher(deleter)
		logger.Warn(ctx, "⚠️  Redis not configured, caching is disabled and deletes run inline")
	}

	r.Get("/healthz", api.HealthHandler(checks))
	r.Handle("/metrics", promhttp.Handler())

	uploadSvc := mediaSvc.NewUploadIngestor(backend, norm, mediaSvc.UploadLimits{
		MediaMaxBytes:   cfg.UploadMaxBytes,
		ProfileMaxBytes: cfg.ProfileUploadMaxBytes,
	})
	normaliseSvc := mediaSvc.NewReferenceNormaliser(norm, cfg.KnownMissingFiles)
	deleteSvc := mediaSvc.NewMediaDeleteScheduler(dispatcher)

	r.Group(func(r chi.Router) {
		r.Use(auth, cMiddleware.RequireRole(cfg.JWTRequiredRoles...))
		r.Post("/medias/upload", api.UploadMediaHandler(uploadSvc, api.UploadConfig{
			MaxBytes:       max(cfg.UploadMaxBytes, cfg.ProfileUploadMaxBytes),
			TrustForwarded: cfg.TrustProxyHeaders,
		}))
		r.Post("/medias/normalise", api.NormaliseReferencesHandler(normaliseSvc))
		r.Delete("/medias", api.DeleteMediaHandler(deleteSvc))
	})

	var database *db.Database
	if cfg.MongoURI != "" {
		database = initDb(ctx, cfg)
		checks["mongo"] = func(ctx context.Context) error { return database.Client.Ping(ctx, nil) }

		repo := mongoRepo.NewDocumentRepository(database.Database)
		listSvc := mediaSvc.NewDocumentMediaLister(repo, res, norm)
		rendererSvc := renderer.NewHTTPRenderer(ca, cfg.MediaCacheTTL)
		r.With(
			cMiddleware.WithCollection(model.DocumentCollections),
			cMiddleware.WithDocumentID(),
		).Get("/documents/{collection}/{id}/media", api.GetDocumentMediaHandler(rendererSvc, listSvc))
	} else {
		logger.Warn(ctx, "⚠️  MONGO_URI not set, document media endpoint is disabled")
	}

	prefix := norm.PathPrefix()
	r.Get(prefix+"/*", api.FallbackGatewayHandler(res, prefix, recorder))
	r.Head(prefix+"/*", api.FallbackGatewayHandler(res, prefix, recorder))

	proxy := api.ImageProxyHandler(res, api.ProxyConfig{
		PathPrefix:  prefix,
		MinBytes:    cfg.ProxyMinBytes,
		Placeholder: loadProxyPlaceholder(ctx, cfg.ProxyPlaceholderFile),
	})
	r.Get("/image-proxy", proxy)
	r.Options("/image-proxy", proxy)

	listenRouter(ctx, r, cfg, database)
}

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initAuth(ctx context.Context, cfg *config.Settings) func(http.Handler) http.Handler {
	auth, err := cMiddleware.WithBearerAuth(cMiddleware.AuthConfig{
		PublicKeyPEM: cfg.JWTPublicKey,
		Issuer:       cfg.JWTIssuer,
		Audience:     cfg.JWTAudience,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid JWT configuration: %v", err)
		os.Exit(1)
	}
	if cfg.JWTPublicKey == "" {
		logger.Warn(ctx, "⚠️  JWT_PUBLIC_KEY not set, mutating routes are unauthenticated")
	}
	return auth
}

func initStorage(ctx context.Context, cfg *config.Settings, recorder *metrics.Recorder) port.StorageBackend {
	backend, err := storage.NewBackend(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise %s storage: %v", cfg.StorageBackend, err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Using %s storage backend", backend.Name())
	return storage.NewObservedBackend(backend, recorder)
}

func initNormaliser(cfg *config.Settings) *normaliser.Normaliser {
	return normaliser.New(normaliser.Config{
		BaseOrigin: cfg.PublicBaseURL,
		PathPrefix: cfg.PathPrefix,
		Namespace:  cfg.Namespace,
		DevHosts:   cfg.DevHosts,
	})
}

func initResolver(ctx context.Context, cfg *config.Settings) *resolver.Resolver {
	res, err := resolver.New(resolver.Config{
		Root:                cfg.UploadDir,
		Placeholders:        cfg.FallbackPlaceholders,
		MinPlaceholderBytes: cfg.FallbackMinBytes,
		KnownMissing:        cfg.KnownMissingFiles,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise file resolver: %v", err)
		os.Exit(1)
	}
	return res
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func loadProxyPlaceholder(ctx context.Context, file string) []byte {
	if file == "" {
		return nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		logger.Warnf(ctx, "⚠️  Could not read proxy placeholder %q, using the embedded one: %v", file, err)
		return nil
	}
	return data
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if database != nil {
		if err := database.Close(shutdownCtx); err != nil {
			logger.Errorf(ctx, "DB close error: %v", err)
		}
	}
}
