package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/simp-lee/ginx"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/config"
	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/graph"
	"github.com/simp-lee/shopgraph/internal/mail"
	"github.com/simp-lee/shopgraph/internal/middleware"
	"github.com/simp-lee/shopgraph/internal/module/auth"
	"github.com/simp-lee/shopgraph/internal/module/product"
	"github.com/simp-lee/shopgraph/internal/module/user"
	"github.com/simp-lee/shopgraph/internal/module/userproduct"
	"github.com/simp-lee/shopgraph/internal/pkg"
	"github.com/simp-lee/shopgraph/internal/token"
)

const tokenIssuer = "shopgraph"

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine    *gin.Engine
	db        *gorm.DB
	redis     *redis.Client
	sessions  *auth.SessionManager
	rateStore ginx.RateLimitStore
	logger    *logger.Logger
	cfg       *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, the optional Redis session store, the
// token signer and mailer, the domain modules, the GraphQL schema, middleware
// and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Auth.TokenSecret) == "" {
		return nil, errors.New("auth.token_secret is required")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 exposes permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		closeDatabase(db)
	}()

	// 3. AutoMigrate in debug mode only.
	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(&domain.Product{}, &domain.User{}, &domain.UserProduct{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 4. Session store (nil when disabled).
	rdb, err := config.SetupRedis(&cfg.Redis, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup redis: %w", err)
	}
	defer func() {
		if success || rdb == nil {
			return
		}
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", slog.Any("error", err))
		}
	}()

	// 5. Session tokens, revocable in process and, with Redis, across instances.
	sessionTokens, err := token.NewSessionService(cfg.Auth.TokenSecret, tokenIssuer, cfg.Auth.SessionTTL())
	if err != nil {
		return nil, fmt.Errorf("setup session tokens: %w", err)
	}
	var store domain.SessionStore
	if rdb != nil {
		store = auth.NewRedisSessionStore(rdb, cfg.Redis.KeyPrefix)
	}
	sessions := auth.NewSessionManager(sessionTokens, store)
	defer func() {
		if success {
			return
		}
		sessions.Close()
	}()

	// 6. Manual dependency injection: repository → service → handler.
	signer := token.NewSigner(cfg.Auth.TokenSecret, token.WithIssuer(tokenIssuer))
	mailer := mail.NewSender(cfg.Mail, log.Logger)
	tx := pkg.NewTransactor(db)

	products := product.NewModule(db, tx)
	users := user.NewModule(db, user.Deps{
		Tx:        tx,
		Tokens:    signer,
		Mailer:    mailer,
		Sessions:  sessions,
		VerifyTTL: cfg.Auth.VerifyTokenTTL(),
		Logger:    log.Logger,
	})
	links := userproduct.NewModule(db, users.Repository, products.Repository, tx)
	authModule := auth.NewModule(auth.Deps{
		Users:      users.Repository,
		Tokens:     signer,
		Sessions:   sessions,
		SessionTTL: cfg.Auth.SessionTTL(),
		Logger:     log.Logger,
	})

	resolver := graph.NewResolver(graph.Handlers{
		Products:     products.Handler,
		Users:        users.Handler,
		UserProducts: links.Handler,
		Auth:         authModule.Handler,
	}, log.Logger)
	schema, err := graph.NewSchema(resolver, graph.Options{
		MaxDepth:       cfg.Server.GraphQL.MaxDepth,
		MaxParallelism: cfg.Server.GraphQL.MaxParallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}

	// 7. Create Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	timeout, err := parseOptionalDuration(cfg.Server.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid server.timeout: %w", err)
	}

	var rateStore ginx.RateLimitStore
	if cfg.Server.RateLimit.Enabled {
		rateStore = ginx.NewMemoryLimiterStore(5 * time.Minute)
	}
	defer func() {
		if success || rateStore == nil {
			return
		}
		_ = rateStore.Close()
	}()

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, &cfg.Server.CORS)),
		requestGuards(cfg.Server.RateLimit, rateStore, timeout),
		middleware.Auth(authModule.Service),
	)

	// 8. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: []Module{graph.NewModule(schema, cfg.Server.GraphQL.Path)},
		DB:      db,
		Redis:   rdb,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:    engine,
		db:        db,
		redis:     rdb,
		sessions:  sessions,
		rateStore: rateStore,
		logger:    log,
		cfg:       cfg,
	}, nil
}

// requestGuards chains the ginx rate limiter and request timeout. Their
// rejections (429, 408) are written in the pkg.Response envelope.
func requestGuards(rl config.RateLimitConfig, store ginx.RateLimitStore, timeout time.Duration) gin.HandlerFunc {
	chain := ginx.NewChain().WithErrorFormat(func(status int, message string) any {
		return pkg.Response{Code: status, Message: message}
	})
	if rl.Enabled {
		chain.Use(ginx.RateLimit(effectiveRateLimitRPS(rl.RPS), rl.Burst, ginx.WithIP(), ginx.WithStore(store)))
	}
	if timeout > 0 {
		chain.Use(ginx.Timeout(ginx.WithTimeout(timeout)))
	}
	return chain.Build()
}

// effectiveRateLimitRPS rounds a fractional rate up to whole requests per
// second, never below one.
func effectiveRateLimitRPS(rps float64) int {
	return max(int(math.Ceil(rps)), 1)
}

// resolveCORSConfig builds the middleware config from application settings.
// In release mode, when no allowlist is configured, cross-origin requests are
// denied.
func resolveCORSConfig(mode string, c *config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()
	if c == nil {
		if mode == gin.ReleaseMode {
			corsConfig.AllowOrigins = []string{}
		}
		return corsConfig
	}

	switch {
	case len(c.AllowOrigins) > 0:
		corsConfig.AllowOrigins = c.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}
	if len(c.AllowMethods) > 0 {
		corsConfig.AllowMethods = c.AllowMethods
	}
	if len(c.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = c.AllowHeaders
	}
	corsConfig.AllowCredentials = c.AllowCredentials
	if d, err := time.ParseDuration(strings.TrimSpace(c.MaxAge)); err == nil && d > 0 {
		corsConfig.MaxAge = strconv.Itoa(int(d.Seconds()))
	}
	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// parseOptionalDuration treats an empty or whitespace-only value as unset.
func parseOptionalDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be greater than 0", raw)
	}
	return d, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("database close error", slog.Any("error", err))
		return err
	}
	return nil
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and then releases the
// rate limiter, the session tokens, Redis and the database connection.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.rateStore != nil {
		_ = a.rateStore.Close()
	}
	if a.sessions != nil {
		a.sessions.Close()
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error("redis close error", slog.Any("error", err))
		} else {
			log.Info("redis connection closed")
		}
	}

	if a.db != nil {
		if err := closeDatabase(a.db); err == nil {
			log.Info("database connection closed")
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
