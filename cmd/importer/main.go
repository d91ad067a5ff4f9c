package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/config"
	"github.com/apiantsiak/go-catalog-import/internal/importer"
	"github.com/apiantsiak/go-catalog-import/internal/kafkax"
	"github.com/apiantsiak/go-catalog-import/internal/redisx"
	"github.com/apiantsiak/go-catalog-import/internal/s3x"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (in-flight markers)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Object storage
	store, err := s3x.New(ctx, cfg.S3Endpoint)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	// Queue producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicImportRequested)

	relay := &importer.Relay{
		Store:        store,
		Queue:        prod,
		Bucket:       cfg.UploadBucket,
		UploadPrefix: cfg.UploadPrefix,
		ParsedPrefix: cfg.ParsedPrefix,
		ServiceName:  cfg.ServiceName + "-importer",
	}
	scanner := &importer.Scanner{
		Store:    store,
		Relay:    relay,
		Redis:    rdb,
		Interval: cfg.ScanInterval,
	}

	go func() {
		log.Printf("importer started: bucket=%s prefix=%s interval=%s",
			cfg.UploadBucket, cfg.UploadPrefix, cfg.ScanInterval)
		if err := scanner.Run(ctx); err != nil {
			log.Printf("scanner exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down importer...")
	cancel()
	_ = prod.Close()
}
