package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryBackend keeps documents in process memory. It backs tests and runs
// the service when no Postgres DSN is configured.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryBackend builds an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]map[string][]byte)}
}

func (b *MemoryBackend) List(ctx context.Context, collection string) ([]Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	docs := make([]Document, 0, len(b.collections[collection]))
	for id, data := range b.collections[collection] {
		docs = append(docs, Document{ID: id, Data: append([]byte(nil), data...)})
	}
	sort.Slice(docs, func(i, j int) bool {
		ni, nj := nameField(docs[i].Data), nameField(docs[j].Data)
		if ni != nj {
			return ni < nj
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (b *MemoryBackend) Get(ctx context.Context, collection, id string) (Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: append([]byte(nil), data...)}, nil
}

func (b *MemoryBackend) Insert(ctx context.Context, collection, id string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.collections[collection] == nil {
		b.collections[collection] = make(map[string][]byte)
	}
	b.collections[collection][id] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Merge(ctx context.Context, collection, id string, patch []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, ok := b.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	var current, delta map[string]json.RawMessage
	if err := json.Unmarshal(existing, &current); err != nil {
		return fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(patch, &delta); err != nil {
		return fmt.Errorf("decode patch for %s/%s: %w", collection, id, err)
	}
	// Shallow merge keeps parity with the JSONB || operator.
	for key, val := range delta {
		current[key] = val
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return err
	}
	b.collections[collection][id] = merged
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.collections[collection], id)
	return nil
}

func (b *MemoryBackend) DeleteMany(ctx context.Context, collection string, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range ids {
		if _, ok := b.collections[collection][id]; !ok {
			return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(b.collections[collection], id)
	}
	return nil
}

func (b *MemoryBackend) Close() {}

func nameField(data []byte) string {
	var probe struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(data, &probe)
	return probe.Name
}
