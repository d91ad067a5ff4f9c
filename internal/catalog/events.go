package catalog

import (
	"encoding/json"
	"time"
)

const (
	EventImportRequested = "ProductImportRequested"
	EventBatchStored     = "CatalogBatchStored"
	EventBatchFailed     = "CatalogBatchFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // source object key
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

// ImportRequestedPayload wraps one CSV row. Record stays the flat
// column->value mapping the normalizer produced; validation happens on
// the consumer side.
type ImportRequestedPayload struct {
	Source string            `json:"source"` // object key the row came from
	Row    int               `json:"row"`    // 1-based position in the file
	Record map[string]string `json:"record"`
}

type BatchStoredPayload struct {
	Sources []string      `json:"sources,omitempty"` // every object key in the batch
	Items   []ProductView `json:"items"`
	Count   int           `json:"count"`
	Message string        `json:"message"`
}

type BatchFailedPayload struct {
	Sources []string `json:"sources,omitempty"`
	Error   string   `json:"error"`
	Count   int      `json:"count"` // records in the failed batch
}
