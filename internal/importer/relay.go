package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/kafkax"
)

type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Move(ctx context.Context, bucket, src, dst string) error
}

type Publisher interface {
	PublishBatch(ctx context.Context, msgs []kafkago.Message) error
}

// Relay turns one uploaded CSV object into queued ingestion messages and
// then relocates the object to the parsed prefix.
type Relay struct {
	Store        ObjectStore
	Queue        Publisher
	Bucket       string
	UploadPrefix string
	ParsedPrefix string
	ServiceName  string
}

// ProcessObject: get -> normalize -> enqueue -> relocate, strictly in
// that order. If the enqueue fails, relocation is skipped and the object
// stays under the upload prefix for a later retry.
func (r *Relay) ProcessObject(ctx context.Context, key string) error {
	data, err := r.Store.Get(ctx, r.Bucket, key)
	if err != nil {
		return err
	}

	records, err := ParseCSV(data)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", key, err)
	}

	msgs := make([]kafkago.Message, 0, len(records))
	for i, rec := range records {
		env := catalog.Envelope{
			EventID:       uuid.NewString(),
			EventType:     catalog.EventImportRequested,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      r.ServiceName,
			CorrelationID: key,
			Payload: kafkax.MustMarshal(catalog.ImportRequestedPayload{
				Source: key,
				Row:    i + 1,
				Record: rec,
			}),
		}
		msgs = append(msgs, kafkago.Message{
			Key:   catalog.PartitionKey(key),
			Value: kafkax.MustMarshal(env),
			Headers: []kafkago.Header{
				{Key: "x-event-type", Value: []byte(catalog.EventImportRequested)},
				{Key: "x-event-version", Value: []byte("1")},
				{Key: "x-record-id", Value: []byte(strconv.Itoa(i + 1))},
			},
		})
	}

	if err := r.Queue.PublishBatch(ctx, msgs); err != nil {
		return fmt.Errorf("enqueue %d records from %s: %w", len(msgs), key, err)
	}

	dst := strings.Replace(key, r.UploadPrefix, r.ParsedPrefix, 1)
	if err := r.Store.Move(ctx, r.Bucket, key, dst); err != nil {
		return fmt.Errorf("relocate %s: %w", key, err)
	}
	return nil
}
