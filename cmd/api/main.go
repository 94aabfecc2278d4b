package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"homeflow/auth"
	"homeflow/config"
	"homeflow/db"
	"homeflow/favorite"
	"homeflow/logger"
	"homeflow/profile"
	"homeflow/property"
	"homeflow/role"
	"homeflow/server"
	"homeflow/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("bootstrap config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("bootstrap logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.Database.URL, db.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		zlog.Fatal("bootstrap database pool", zap.Error(err))
	}
	defer pool.Close()

	sessions := session.NewStore()
	roleCache := role.NewMemoryCache()
	resolver := role.NewResolver(role.NewPGLookup(pool), roleCache, zlog)

	authSvc := auth.NewService(auth.NewRepository(pool), cfg.JWT.Secret, cfg.JWT.TTL)
	propertySvc := property.NewService(property.NewRepository(pool), zlog)
	favoriteSvc := favorite.NewService(favorite.NewRepository(pool))
	profileSvc := profile.NewService(profile.NewRepository(pool), resolver, zlog)

	router := server.NewRouter(server.Deps{
		Auth:       authSvc,
		Sessions:   sessions,
		Resolver:   resolver,
		Properties: propertySvc,
		Favorites:  favoriteSvc,
		Profiles:   profileSvc,
		Log:        zlog,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown", zap.Error(err))
	}
}
