package importer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
)

type fakeStore struct {
	objects map[string][]byte
	moved   [][2]string
}

func (f *fakeStore) Get(_ context.Context, _, key string) ([]byte, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key: " + key)
	}
	return b, nil
}

func (f *fakeStore) Move(_ context.Context, _, src, dst string) error {
	f.moved = append(f.moved, [2]string{src, dst})
	delete(f.objects, src)
	return nil
}

type fakeQueue struct {
	batches [][]kafkago.Message
	err     error
}

func (f *fakeQueue) PublishBatch(_ context.Context, msgs []kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, msgs)
	return nil
}

func newRelay(store *fakeStore, queue *fakeQueue) *Relay {
	return &Relay{
		Store:        store,
		Queue:        queue,
		Bucket:       "catalog-import",
		UploadPrefix: "uploaded",
		ParsedPrefix: "parsed",
		ServiceName:  "test-importer",
	}
}

func TestRelay_EnqueuesThenRelocates(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"uploaded/products.csv": []byte("title,description,price,count\nFoo,Bar,9.99,3\nBaz,Qux,1.00,1\n"),
	}}
	queue := &fakeQueue{}

	err := newRelay(store, queue).ProcessObject(context.Background(), "uploaded/products.csv")
	require.NoError(t, err)

	require.Len(t, queue.batches, 1)
	msgs := queue.batches[0]
	require.Len(t, msgs, 2)

	// 1-based record ids attributed per message
	ids := []string{}
	for _, m := range msgs {
		for _, h := range m.Headers {
			if h.Key == "x-record-id" {
				ids = append(ids, string(h.Value))
			}
		}
	}
	assert.Equal(t, []string{"1", "2"}, ids)

	var env catalog.Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Value, &env))
	assert.Equal(t, catalog.EventImportRequested, env.EventType)
	assert.Equal(t, "uploaded/products.csv", env.CorrelationID)

	var p catalog.ImportRequestedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, "Foo", p.Record["title"])
	assert.Equal(t, "9.99", p.Record["price"])

	require.Len(t, store.moved, 1)
	assert.Equal(t, [2]string{"uploaded/products.csv", "parsed/products.csv"}, store.moved[0])
}

func TestRelay_EnqueueFailureSkipsRelocation(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"uploaded/products.csv": []byte("title,description,price,count\nFoo,Bar,9.99,3\n"),
	}}
	queue := &fakeQueue{err: errors.New("broker down")}

	err := newRelay(store, queue).ProcessObject(context.Background(), "uploaded/products.csv")
	require.Error(t, err)

	assert.Empty(t, store.moved, "relocation must not happen after a failed enqueue")
	_, stillThere := store.objects["uploaded/products.csv"]
	assert.True(t, stillThere, "source object must stay in place for a future attempt")
}

func TestRelay_MalformedObjectRejectedWhole(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"uploaded/bad.csv": {0xff, 0xfe},
	}}
	queue := &fakeQueue{}

	err := newRelay(store, queue).ProcessObject(context.Background(), "uploaded/bad.csv")
	require.ErrorIs(t, err, ErrDecode)
	assert.Empty(t, queue.batches)
	assert.Empty(t, store.moved)
}
