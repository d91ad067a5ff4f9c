package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/apiantsiak/go-catalog-import/internal/auth"
	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/config"
	"github.com/apiantsiak/go-catalog-import/internal/httpx"
	"github.com/apiantsiak/go-catalog-import/internal/postgres"
	"github.com/apiantsiak/go-catalog-import/internal/redisx"
	"github.com/apiantsiak/go-catalog-import/internal/s3x"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Object storage + upload presigner
	store, err := s3x.New(ctx, cfg.S3Endpoint)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	signer := s3x.NewPresigner(store, cfg.UploadBucket, cfg.UploadPrefix, cfg.PresignTTL)

	// Handlers
	router := httpx.NewRouter()
	ph := &httpx.ProductsHandler{
		Store: &catalog.Repo{DB: db},
		Cache: rdb,
	}
	ph.Register(router)

	authorizer := auth.New()
	router.Group(func(gr chi.Router) {
		gr.Use(httpx.BasicAuth(authorizer))
		(&httpx.ImportHandler{Signer: signer}).Register(gr)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
