package redisx

import "time"

const (
	// Cache merged product view: product:{id} -> JSON view
	KeyProduct = "product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// In-flight marker for an object being imported: import:inflight:{object_key}
	KeyImportInflight = "import:inflight:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
	TTLInflight     = 15 * time.Minute
)
