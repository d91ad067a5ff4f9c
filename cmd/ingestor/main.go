package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/config"
	"github.com/apiantsiak/go-catalog-import/internal/ingestion"
	"github.com/apiantsiak/go-catalog-import/internal/kafkax"
	"github.com/apiantsiak/go-catalog-import/internal/postgres"
	"github.com/apiantsiak/go-catalog-import/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Notification topic producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicImportNotified)

	svc := &ingestion.Service{
		Writer: &catalog.Repo{DB: db},
		Notifier: &ingestion.Notifier{
			Topic:       prod,
			ServiceName: cfg.ServiceName + "-ingestor",
		},
		Dedup: &redisx.Deduper{Client: rdb, Service: "ingestor"},
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, catalog.TopicImportRequested, cfg.BatchSize)

	go func() {
		log.Printf("ingestor started: group=%s topic=%s batch=%d",
			cfg.ConsumerGroup, catalog.TopicImportRequested, cfg.BatchSize)
		if err := cons.Start(ctx, svc.HandleBatch); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down ingestor...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	_ = prod.Close()
}
