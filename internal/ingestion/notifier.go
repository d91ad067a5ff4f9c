package ingestion

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/kafkax"
)

type Publisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafkago.Header) error
}

// Notifier publishes exactly one outcome event per consumer invocation
// to the broadcast topic.
type Notifier struct {
	Topic       Publisher
	ServiceName string
}

func (n *Notifier) Success(ctx context.Context, sources []string, items []catalog.ProductView) error {
	return n.publish(ctx, sources, catalog.EventBatchStored, kafkax.MustMarshal(catalog.BatchStoredPayload{
		Sources: sources,
		Items:   items,
		Count:   len(items),
		Message: "Products were successfully uploaded from csv",
	}))
}

func (n *Notifier) Failure(ctx context.Context, sources []string, count int, cause error) error {
	return n.publish(ctx, sources, catalog.EventBatchFailed, kafkax.MustMarshal(catalog.BatchFailedPayload{
		Sources: sources,
		Error:   cause.Error(),
		Count:   count,
	}))
}

// publish keys the event on the first source so all outcomes for one
// upload land on the same partition; the payload carries the full list.
func (n *Notifier) publish(ctx context.Context, sources []string, eventType string, payload []byte) error {
	var source string
	if len(sources) > 0 {
		source = sources[0]
	}
	env := catalog.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.ServiceName,
		CorrelationID: source,
		Payload:       payload,
	}
	return n.Topic.Publish(ctx, catalog.PartitionKey(source), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
