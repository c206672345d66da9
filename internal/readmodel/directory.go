// Package readmodel holds the live in-memory view of both collections.
// Components receive a *Directory explicitly instead of reaching for global
// subscription state; Close tears the subscriptions down deterministically.
package readmodel

import (
	"sync"

	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/repository"
)

// Directory caches the latest full snapshots of collaborators and
// departments, refreshed by the repositories' live subscriptions.
type Directory struct {
	mu            sync.RWMutex
	collaborators []domain.Collaborator
	departments   []domain.Department
	cancels       []func()
}

// NewDirectory subscribes to both collections and keeps the snapshots
// current until Close is called.
func NewDirectory(collaborators *repository.CollaboratorRepository, departments *repository.DepartmentRepository) *Directory {
	d := &Directory{}

	cancelCollabs := collaborators.Subscribe(func(list []domain.Collaborator) {
		d.mu.Lock()
		d.collaborators = list
		d.mu.Unlock()
	})
	cancelDepts := departments.Subscribe(func(list []domain.Department) {
		d.mu.Lock()
		d.departments = list
		d.mu.Unlock()
	})
	d.cancels = []func(){cancelCollabs, cancelDepts}
	return d
}

// Close unsubscribes both live listeners.
func (d *Directory) Close() {
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
}

// Collaborators returns the latest collaborator snapshot ordered by name.
func (d *Directory) Collaborators() []domain.Collaborator {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.Collaborator(nil), d.collaborators...)
}

// Departments returns the latest department snapshot ordered by name.
func (d *Directory) Departments() []domain.Department {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.Department(nil), d.departments...)
}

// Collaborator looks a collaborator up by id in the current snapshot.
func (d *Directory) Collaborator(id string) *domain.Collaborator {
	if id == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.collaborators {
		if d.collaborators[i].ID == id {
			c := d.collaborators[i]
			return &c
		}
	}
	return nil
}

// Department looks a department up by id in the current snapshot.
func (d *Directory) Department(id string) *domain.Department {
	if id == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.departments {
		if d.departments[i].ID == id {
			dept := d.departments[i]
			return &dept
		}
	}
	return nil
}

// ManagerCandidates returns manager-level collaborators eligible as
// managerId targets, excluding the record being edited.
func (d *Directory) ManagerCandidates(excludeID string) []domain.Collaborator {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var result []domain.Collaborator
	for _, c := range d.collaborators {
		if c.Level == domain.LevelManager && c.ID != excludeID {
			result = append(result, c)
		}
	}
	return result
}
