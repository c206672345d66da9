package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
)

// CollaboratorRepository wraps the document store for the collaborators
// collection and converts raw documents to typed records.
type CollaboratorRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

// NewCollaboratorRepository builds the repository.
func NewCollaboratorRepository(store *docstore.Store, logger *zap.Logger) *CollaboratorRepository {
	return &CollaboratorRepository{store: store, logger: logger}
}

// Subscribe registers a live listener delivering typed full snapshots
// ordered by name. The returned cancel func stops delivery.
func (r *CollaboratorRepository) Subscribe(fn func([]domain.Collaborator)) (cancel func()) {
	return r.store.Subscribe(docstore.CollectionCollaborators, func(docs []docstore.Document) {
		fn(r.decodeAll(docs))
	})
}

// List returns the current collection contents ordered by name.
func (r *CollaboratorRepository) List(ctx context.Context) ([]domain.Collaborator, error) {
	docs, err := r.store.List(ctx, docstore.CollectionCollaborators)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(docs), nil
}

// Get returns one collaborator or docstore.ErrNotFound.
func (r *CollaboratorRepository) Get(ctx context.Context, id string) (*domain.Collaborator, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionCollaborators, id)
	if err != nil {
		return nil, err
	}
	collab, err := decodeCollaborator(doc)
	if err != nil {
		return nil, err
	}
	return &collab, nil
}

// Propose allocates an id for a new collaborator; the caller decides whether
// to await the commit.
func (r *CollaboratorRepository) Propose(collab domain.Collaborator) (*docstore.PendingWrite, error) {
	return r.store.Propose(docstore.CollectionCollaborators, collab)
}

// Create stores a new collaborator with a background write and returns the
// new id immediately.
func (r *CollaboratorRepository) Create(collab domain.Collaborator) (string, error) {
	return r.store.Create(docstore.CollectionCollaborators, collab)
}

// Update merge-writes the named fields of patch; omitted fields persist.
func (r *CollaboratorRepository) Update(ctx context.Context, id string, patch any) error {
	return r.store.Update(ctx, docstore.CollectionCollaborators, id, patch)
}

// Delete removes a collaborator.
func (r *CollaboratorRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionCollaborators, id)
}

// DeleteMany removes collaborators as one all-or-nothing batch.
func (r *CollaboratorRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.store.DeleteMany(ctx, docstore.CollectionCollaborators, ids)
}

func (r *CollaboratorRepository) decodeAll(docs []docstore.Document) []domain.Collaborator {
	result := make([]domain.Collaborator, 0, len(docs))
	for _, doc := range docs {
		collab, err := decodeCollaborator(doc)
		if err != nil {
			r.logger.Warn("skipping malformed collaborator document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		result = append(result, collab)
	}
	return result
}

func decodeCollaborator(doc docstore.Document) (domain.Collaborator, error) {
	var collab domain.Collaborator
	if err := json.Unmarshal(doc.Data, &collab); err != nil {
		return domain.Collaborator{}, err
	}
	collab.ID = doc.ID
	return collab, nil
}
