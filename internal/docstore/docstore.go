// Package docstore adapts a collection/document shaped store with live
// subscriptions. Documents are opaque JSON objects keyed by a store-assigned
// id; listings are ordered by the document's "name" field. Both a Postgres
// JSONB backend and an in-memory backend implement the same contract.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

// Collection names used by the service.
const (
	CollectionCollaborators = "collaborators"
	CollectionDepartments   = "departments"
)

// Document is one stored record. Data is the JSON object payload; the id is
// kept outside of it.
type Document struct {
	ID   string
	Data []byte
}

// Backend is the storage contract behind the Store.
//
// Merge applies a shallow merge-write: top-level fields named in the patch
// change, omitted fields persist. DeleteMany is atomic-or-none: a missing id
// fails the whole batch and no document is removed. Insert overwrites an
// existing document with the same id.
type Backend interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection, id string, data []byte) error
	Merge(ctx context.Context, collection, id string, patch []byte) error
	Delete(ctx context.Context, collection, id string) error
	DeleteMany(ctx context.Context, collection string, ids []string) error
	Close()
}

// ChangeFeed propagates change notifications across service instances.
type ChangeFeed interface {
	Broadcast(ctx context.Context, collection string) error
	Listen(fn func(collection string))
	Close()
}

// Store combines a Backend with the live-subscription hub. All mutations
// notify subscribers of the affected collection after they commit.
type Store struct {
	backend Backend
	feed    ChangeFeed
	hub     *hub
	logger  *zap.Logger
}

// New builds a Store. feed may be nil for single-instance deployments.
func New(backend Backend, feed ChangeFeed, logger *zap.Logger) *Store {
	s := &Store{
		backend: backend,
		feed:    feed,
		hub:     newHub(),
		logger:  logger,
	}
	if feed != nil {
		feed.Listen(s.deliverAll)
	}
	return s
}

// SnapshotFunc receives the full current contents of a collection.
type SnapshotFunc func(docs []Document)

// Subscribe registers a live listener on a collection. The callback receives
// an immediate snapshot and a fresh full snapshot after every committed
// change. Snapshot query failures are logged and degrade to an empty
// snapshot; they never propagate to the caller. The returned cancel func is
// the only way to stop delivery.
func (s *Store) Subscribe(collection string, fn SnapshotFunc) (cancel func()) {
	sub := s.hub.add(collection, fn)
	s.deliverTo(collection, sub)
	return func() { s.hub.remove(collection, sub) }
}

// Get returns a single document or ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.backend.Get(ctx, collection, id)
}

// List returns the full contents of a collection ordered by name.
func (s *Store) List(ctx context.Context, collection string) ([]Document, error) {
	return s.backend.List(ctx, collection)
}

// PendingWrite is a proposed document creation. The id is allocated
// immediately; durability is decided by the caller: Commit awaits the write,
// Background fires it and only logs a failure.
type PendingWrite struct {
	LocalID    string
	store      *Store
	collection string
	data       []byte
}

// Propose allocates an id for a new document without touching the store.
func (s *Store) Propose(collection string, payload any) (*PendingWrite, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return &PendingWrite{
		LocalID:    uuid.NewString(),
		store:      s,
		collection: collection,
		data:       data,
	}, nil
}

// Commit persists the proposed document and notifies subscribers.
func (w *PendingWrite) Commit(ctx context.Context) error {
	if err := w.store.backend.Insert(ctx, w.collection, w.LocalID, w.data); err != nil {
		return err
	}
	w.store.changed(ctx, w.collection)
	return nil
}

// Background dispatches the commit without waiting for it. Failures are
// logged and swallowed; the document only becomes visible through the
// subscription snapshot once the write lands.
func (w *PendingWrite) Background() {
	go func() {
		if err := w.Commit(context.Background()); err != nil {
			w.store.logger.Error("background document sync failed",
				zap.String("collection", w.collection),
				zap.String("id", w.LocalID),
				zap.Error(err))
		}
	}()
}

// Create proposes a document and syncs it in the background, returning the
// new id immediately. Callers must not assume durability before the next
// subscription snapshot reflects the document.
func (s *Store) Create(collection string, payload any) (string, error) {
	pending, err := s.Propose(collection, payload)
	if err != nil {
		return "", err
	}
	pending.Background()
	return pending.LocalID, nil
}

// Update merge-writes the named fields of the patch; omitted fields persist.
func (s *Store) Update(ctx context.Context, collection, id string, patch any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	if err := s.backend.Merge(ctx, collection, id, data); err != nil {
		return err
	}
	s.changed(ctx, collection)
	return nil
}

// Delete removes a single document. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.backend.Delete(ctx, collection, id); err != nil {
		return err
	}
	s.changed(ctx, collection)
	return nil
}

// DeleteMany removes the given documents as a single all-or-nothing batch.
func (s *Store) DeleteMany(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.backend.DeleteMany(ctx, collection, ids); err != nil {
		return err
	}
	s.changed(ctx, collection)
	return nil
}

// Close tears down the feed and backend.
func (s *Store) Close() {
	if s.feed != nil {
		s.feed.Close()
	}
	s.backend.Close()
}

func (s *Store) changed(ctx context.Context, collection string) {
	s.deliverAll(collection)
	if s.feed != nil {
		if err := s.feed.Broadcast(ctx, collection); err != nil {
			s.logger.Warn("change broadcast failed",
				zap.String("collection", collection), zap.Error(err))
		}
	}
}

func (s *Store) deliverAll(collection string) {
	for _, sub := range s.hub.subscribers(collection) {
		s.deliverTo(collection, sub)
	}
}

func (s *Store) deliverTo(collection string, sub *subscriber) {
	docs, err := s.backend.List(context.Background(), collection)
	if err != nil {
		s.logger.Error("snapshot query failed",
			zap.String("collection", collection), zap.Error(err))
		sub.deliver([]Document{})
		return
	}
	sub.deliver(docs)
}
