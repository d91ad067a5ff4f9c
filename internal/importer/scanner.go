package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apiantsiak/go-catalog-import/internal/redisx"
)

type Lister interface {
	List(ctx context.Context, bucket, prefix, suffix string) ([]string, error)
}

// Scanner polls the bucket for fresh CSV uploads and feeds them to the
// relay. A Redis SETNX marker keeps concurrent importers from parsing
// the same object twice; the marker is released on failure so a later
// pass retries.
type Scanner struct {
	Store    Lister
	Relay    *Relay
	Redis    *redis.Client
	Interval time.Duration
}

func (s *Scanner) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		s.scanOnce(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (s *Scanner) scanOnce(ctx context.Context) {
	keys, err := s.Store.List(ctx, s.Relay.Bucket, s.Relay.UploadPrefix+"/", ".csv")
	if err != nil {
		log.Printf("scan: %v", err)
		return
	}

	for _, key := range keys {
		mark := fmt.Sprintf(redisx.KeyImportInflight, key)
		ok, err := s.Redis.SetNX(ctx, mark, "1", redisx.TTLInflight).Result()
		if err != nil {
			log.Printf("scan %s: marker: %v", key, err)
			continue
		}
		if !ok {
			continue // another importer holds it
		}

		if err := s.Relay.ProcessObject(ctx, key); err != nil {
			log.Printf("import %s: %v", key, err)
			_ = s.Redis.Del(ctx, mark).Err()
			continue
		}
		log.Printf("imported %s", key)
	}
}
