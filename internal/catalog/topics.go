package catalog

const (
	TopicImportRequested = "catalog.import.requested"
	TopicImportNotified  = "catalog.import.notified"
)

// Partition key = source object key, so all rows of one file keep their order.
func PartitionKey(source string) []byte { return []byte(source) }
