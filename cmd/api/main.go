package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
	"github.com/RapidMaulana/NgeBaju-BE/internal/cart"
	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
	"github.com/RapidMaulana/NgeBaju-BE/internal/config"
	"github.com/RapidMaulana/NgeBaju-BE/internal/httpx"
	"github.com/RapidMaulana/NgeBaju-BE/internal/orders"
	"github.com/RapidMaulana/NgeBaju-BE/internal/postgres"
	"github.com/RapidMaulana/NgeBaju-BE/internal/redisx"
	"github.com/RapidMaulana/NgeBaju-BE/internal/users"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Schema dulu, baru pool.
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Error("migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	keys := auth.NewKeys(cfg.JWTSecret, cfg.TokenTTL, cfg.ServiceName)
	v := validator.New()

	userRepo := &users.Repo{DB: db}
	catalogRepo := &catalog.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}

	router := httpx.NewRouter(log)
	(&httpx.AuthHandler{Users: userRepo, Keys: keys, Validate: v, Log: log}).Register(router, keys)
	(&httpx.UsersHandler{Users: userRepo, Validate: v, Log: log}).Register(router, keys)
	(&httpx.ProductsHandler{Catalog: catalogRepo, Validate: v, Log: log}).Register(router, keys)
	(&httpx.CategoriesHandler{Catalog: catalogRepo, Validate: v, Log: log}).Register(router, keys)
	(&httpx.CartHandler{Cart: cartRepo, Redis: rdb, Validate: v, Log: log}).Register(router, keys)
	(&httpx.OrdersHandler{Orders: orderRepo, Redis: rdb, Validate: v, Log: log}).Register(router, keys)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
