package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
)

// DepartmentRepository wraps the document store for the departments
// collection. The membership list is opaque data here; its semantics belong
// to the coordinator.
type DepartmentRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(store *docstore.Store, logger *zap.Logger) *DepartmentRepository {
	return &DepartmentRepository{store: store, logger: logger}
}

// Subscribe registers a live listener delivering typed full snapshots
// ordered by name.
func (r *DepartmentRepository) Subscribe(fn func([]domain.Department)) (cancel func()) {
	return r.store.Subscribe(docstore.CollectionDepartments, func(docs []docstore.Document) {
		fn(r.decodeAll(docs))
	})
}

// List returns the current collection contents ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	docs, err := r.store.List(ctx, docstore.CollectionDepartments)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(docs), nil
}

// Get returns one department or docstore.ErrNotFound.
func (r *DepartmentRepository) Get(ctx context.Context, id string) (*domain.Department, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionDepartments, id)
	if err != nil {
		return nil, err
	}
	dept, err := decodeDepartment(doc)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// Propose allocates an id for a new department; the caller decides whether
// to await the commit.
func (r *DepartmentRepository) Propose(dept domain.Department) (*docstore.PendingWrite, error) {
	return r.store.Propose(docstore.CollectionDepartments, dept)
}

// Update merge-writes the named fields of patch; omitted fields persist.
func (r *DepartmentRepository) Update(ctx context.Context, id string, patch any) error {
	return r.store.Update(ctx, docstore.CollectionDepartments, id, patch)
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionDepartments, id)
}

// DeleteMany removes departments as one all-or-nothing batch.
func (r *DepartmentRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.store.DeleteMany(ctx, docstore.CollectionDepartments, ids)
}

func (r *DepartmentRepository) decodeAll(docs []docstore.Document) []domain.Department {
	result := make([]domain.Department, 0, len(docs))
	for _, doc := range docs {
		dept, err := decodeDepartment(doc)
		if err != nil {
			r.logger.Warn("skipping malformed department document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		result = append(result, dept)
	}
	return result
}

func decodeDepartment(doc docstore.Document) (domain.Department, error) {
	var dept domain.Department
	if err := json.Unmarshal(doc.Data, &dept); err != nil {
		return domain.Department{}, err
	}
	dept.ID = doc.ID
	return dept, nil
}
