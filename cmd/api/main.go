package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isquicha/desafio-softfocus/internal/api"
	"github.com/isquicha/desafio-softfocus/internal/auth"
	"github.com/isquicha/desafio-softfocus/internal/auth/password"
	"github.com/isquicha/desafio-softfocus/internal/auth/token"
	"github.com/isquicha/desafio-softfocus/internal/config"
	"github.com/isquicha/desafio-softfocus/internal/logger"
	"github.com/isquicha/desafio-softfocus/internal/server"
	"github.com/isquicha/desafio-softfocus/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logger, cfg.App.Name)
	log.Info("Starting", map[string]any{"env": cfg.App.Env})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Database close failed")
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		return err
	}

	codec, err := token.NewCodec(cfg.Auth.SecretKey)
	if err != nil {
		return err
	}

	users := store.NewUserStore(db)
	authSvc := auth.NewService(users, password.New(cfg.Password), codec, log)

	srv := server.New(cfg.Server, log)
	api.Register(srv.Engine(), &api.Deps{
		Log:        log,
		Auth:       authSvc,
		DB:         db,
		Users:      users,
		Produtores: store.NewProdutorStore(db),
		Lavouras:   store.NewLavouraStore(db),
		Perdas:     store.NewPerdaStore(db),
	})

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return srv.Stop(context.Background())
}
