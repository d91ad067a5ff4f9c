package kafkax

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// BatchHandler must return nil only if the whole batch succeeded and
// its offsets may be committed.
type BatchHandler func(ctx context.Context, msgs []kafka.Message) error

type Consumer struct {
	r         *kafka.Reader
	batchSize int
	maxWait   time.Duration
	backoff   time.Duration
}

func NewConsumer(brokers []string, group, topic string, batchSize int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Consumer{
		r:         r,
		batchSize: batchSize,
		maxWait:   500 * time.Millisecond,
		backoff:   200 * time.Millisecond,
	}
}

// Start reads messages in batches of up to batchSize and hands each batch
// to h. A failed batch is re-handled in place until it succeeds or the
// context is cancelled; offsets are committed only after h returns nil.
// On shutdown the current batch stays uncommitted, so the group
// redelivers it to the next session.
func (c *Consumer) Start(ctx context.Context, h BatchHandler) error {
	defer c.r.Close()

	for {
		batch, err := c.fetchBatch(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if len(batch) == 0 {
			continue
		}

		if err := retryBatch(ctx, h, batch, c.backoff); err != nil {
			return nil // shutting down mid-retry; batch left uncommitted
		}
		if err := c.r.CommitMessages(ctx, batch...); err != nil {
			log.Printf("commit error: %v", err)
		}
	}
}

// retryBatch re-runs the same in-memory batch until the handler accepts
// it. The reader never rewinds within a session, so fetching past an
// unhandled batch would let a later commit mark it consumed.
func retryBatch(ctx context.Context, h BatchHandler, msgs []kafka.Message, backoff time.Duration) error {
	for {
		err := h(ctx, msgs)
		if err == nil {
			return nil
		}
		log.Printf("batch handler error (batch not committed): %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// fetchBatch blocks for the first message, then keeps collecting until
// the batch is full or maxWait passes without another message.
func (c *Consumer) fetchBatch(ctx context.Context) ([]kafka.Message, error) {
	first, err := c.r.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	batch := []kafka.Message{first}

	for len(batch) < c.batchSize {
		waitCtx, cancel := context.WithTimeout(ctx, c.maxWait)
		m, err := c.r.FetchMessage(waitCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if ctx.Err() != nil {
				return batch, nil
			}
			return nil, err
		}
		batch = append(batch, m)
	}
	return batch, nil
}
