package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption/internal/adapters/auth/jwt"
	"pet-adoption/internal/adapters/auth/remote"
	"pet-adoption/internal/adapters/storage/photos"
	"pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/config"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/router"
)

// devSecret solo se usa con AUTH_MODE=dev y sin JWT_SECRET.
const devSecret = "dev-insecure-secret"

// @title Pet Adoption API
// @version 1.0
// @description Publicación de mascotas, solicitudes de adopción y mensajería entre usuarios.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	verifier, issuer, err := authStack(cfg, log)
	if err != nil {
		return err
	}

	store, err := photos.NewDiskStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		return fmt.Errorf("uploads: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute)

	var origins []string
	if cfg.FrontendURL != "" {
		origins = []string{cfg.FrontendURL}
	}

	handler, err := router.NewRouter(router.Options{
		Logger:         log,
		AuthVerifier:   verifier,
		TokenIssuer:    issuer,
		DB:             db,
		Photos:         store,
		RateLimiter:    limiter,
		AllowedOrigins: origins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": cfg.AuthMode, "postgres": db != nil})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openDB devuelve nil sin DB_DSN: el router cae al store in-memory.
func openDB(ctx context.Context, cfg config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.DBDSN == "" {
		log.Warn("DB_DSN not set, using in-memory store", nil)
		return nil, nil
	}

	opts := postgres.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DBDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}
	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(opts); err != nil {
			return nil, err
		}
		log.Info("migrations applied", nil)
	}

	db, err := postgres.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return db, nil
}

// authStack: los tokens siempre los emite el Manager local; la verificación
// depende de AUTH_MODE.
func authStack(cfg config.Config, log logger.Logger) (auth.AuthVerifier, auth.TokenIssuer, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.AuthMode == config.AuthModeDev {
		secret = devSecret
	}
	tokens := jwt.NewManager(jwt.Config{Secret: secret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL})

	switch cfg.AuthMode {
	case config.AuthModeRemote:
		v, err := remote.NewVerifier(remote.Config{
			BaseURL: cfg.AuthRemoteURL,
			APIKey:  cfg.AuthRemoteAPIKey,
			Logger:  log,
		})
		if err != nil {
			return nil, nil, err
		}
		return v, tokens, nil
	case config.AuthModeDev:
		log.Warn("AUTH_MODE=dev: identity taken from "+middleware.DebugUserHeader, nil)
		return nil, tokens, nil
	default:
		return tokens, tokens, nil
	}
}
