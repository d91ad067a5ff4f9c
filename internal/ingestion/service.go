package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/kafkax"
)

type BatchWriter interface {
	CreateBatch(ctx context.Context, reqs []catalog.CreateRequest) ([]catalog.ProductView, error)
}

type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

type Service struct {
	Writer   BatchWriter
	Notifier *Notifier
	Dedup    Deduper
}

type pendingRecord struct {
	eventID string
	payload catalog.ImportRequestedPayload
}

// HandleBatch consumes one queue batch: decode, dedup, validate, write
// all pairs in one transaction, notify once. A non-nil return leaves the
// batch uncommitted so the queue redelivers it.
func (s *Service) HandleBatch(ctx context.Context, msgs []kafkago.Message) error {
	var sources []string
	fresh := make([]pendingRecord, 0, len(msgs))
	for _, m := range msgs {
		var env catalog.Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}
		if env.EventType != catalog.EventImportRequested {
			continue // ignore
		}

		seen, err := s.Dedup.Seen(ctx, env.EventID)
		if err != nil {
			log.Printf("dedup check %s: %v", env.EventID, err)
		}
		if seen {
			continue // redelivered, already stored
		}

		p, err := kafkax.UnwrapPayload[catalog.ImportRequestedPayload](env.Payload)
		if err != nil {
			return err
		}
		if !slices.Contains(sources, p.Source) {
			sources = append(sources, p.Source)
		}
		fresh = append(fresh, pendingRecord{eventID: env.EventID, payload: p})
	}
	if len(fresh) == 0 {
		return nil // whole batch was duplicates or foreign events
	}

	reqs := make([]catalog.CreateRequest, 0, len(fresh))
	for _, p := range fresh {
		req, err := catalog.FromRecord(p.payload.Record)
		if err != nil {
			werr := fmt.Errorf("%s row %d: %w", p.payload.Source, p.payload.Row, err)
			if nerr := s.Notifier.Failure(ctx, sources, len(fresh), werr); nerr != nil {
				log.Printf("failure notification: %v", nerr)
			}
			return werr
		}
		reqs = append(reqs, req)
	}

	views, err := s.Writer.CreateBatch(ctx, reqs)
	if errors.Is(err, catalog.ErrConflict) {
		return s.salvageBatch(ctx, sources, fresh, reqs)
	}
	if err != nil {
		if nerr := s.Notifier.Failure(ctx, sources, len(reqs), err); nerr != nil {
			log.Printf("failure notification: %v", nerr)
		}
		return err
	}

	for _, p := range fresh {
		if err := s.Dedup.Mark(ctx, p.eventID); err != nil {
			log.Printf("dedup mark %s: %v", p.eventID, err)
		}
	}

	if err := s.Notifier.Success(ctx, sources, views); err != nil {
		log.Printf("success notification: %v", err)
	}
	return nil
}

// salvageBatch handles a conflict in an all-or-nothing batch: the
// rollback discarded every pair, not just the one that already exists,
// so the rows are rewritten one at a time and only the conflicting ones
// are skipped.
func (s *Service) salvageBatch(ctx context.Context, sources []string, fresh []pendingRecord, reqs []catalog.CreateRequest) error {
	var created []catalog.ProductView
	for i, req := range reqs {
		views, err := s.Writer.CreateBatch(ctx, []catalog.CreateRequest{req})
		if errors.Is(err, catalog.ErrConflict) {
			log.Printf("conflict on %s row %d, skipping", fresh[i].payload.Source, fresh[i].payload.Row)
			if merr := s.Dedup.Mark(ctx, fresh[i].eventID); merr != nil {
				log.Printf("dedup mark %s: %v", fresh[i].eventID, merr)
			}
			continue
		}
		if err != nil {
			if nerr := s.Notifier.Failure(ctx, sources, len(reqs), err); nerr != nil {
				log.Printf("failure notification: %v", nerr)
			}
			return err
		}
		created = append(created, views...)
		if merr := s.Dedup.Mark(ctx, fresh[i].eventID); merr != nil {
			log.Printf("dedup mark %s: %v", fresh[i].eventID, merr)
		}
	}

	if len(created) == 0 {
		// Every pair already exists; replaying cannot succeed, so the
		// batch is committed instead of redelivered.
		if nerr := s.Notifier.Failure(ctx, sources, len(reqs), catalog.ErrConflict); nerr != nil {
			log.Printf("failure notification: %v", nerr)
		}
		return nil
	}
	if nerr := s.Notifier.Success(ctx, sources, created); nerr != nil {
		log.Printf("success notification: %v", nerr)
	}
	return nil
}
