package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/EdersonPinheiro/desafio-flugo/internal/api/dto"
	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/readmodel"
	"github.com/EdersonPinheiro/desafio-flugo/internal/repository"
	"github.com/EdersonPinheiro/desafio-flugo/internal/service"
	apperrors "github.com/EdersonPinheiro/desafio-flugo/pkg/util"
)

// CollaboratorsHandler exposes collaborator listing and write endpoints.
// Listings read from the live directory snapshot; writes route through the
// coordinator.
type CollaboratorsHandler struct {
	org       *service.OrgService
	directory *readmodel.Directory
	repo      *repository.CollaboratorRepository
}

// NewCollaboratorsHandler constructs handler.
func NewCollaboratorsHandler(org *service.OrgService, directory *readmodel.Directory, repo *repository.CollaboratorRepository) *CollaboratorsHandler {
	return &CollaboratorsHandler{org: org, directory: directory, repo: repo}
}

// List handles GET /api/collaborators.
func (h *CollaboratorsHandler) List(c *fiber.Ctx) error {
	filter := repository.CollaboratorFilter{
		Name:         c.Query("name"),
		Email:        c.Query("email"),
		DepartmentID: c.Query("departmentId"),
	}
	sortBy := c.Query("sortBy", "name")
	direction := repository.SortDirection(c.Query("order", string(repository.SortAsc)))

	list := repository.FilterCollaborators(h.directory.Collaborators(), filter)
	list = repository.SortCollaborators(list, sortBy, direction)

	return c.JSON(fiber.Map{"data": dto.FromCollaborators(list)})
}

// Get handles GET /api/collaborators/:id.
func (h *CollaboratorsHandler) Get(c *fiber.Ctx) error {
	collab, err := h.repo.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperrors.NewNotFound("collaborator", map[string]any{"id": c.Params("id")})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromCollaborator(*collab)})
}

// Create handles POST /api/collaborators.
func (h *CollaboratorsHandler) Create(c *fiber.Ctx) error {
	var req dto.CollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	id, err := h.org.SaveCollaborator(c.Context(), "", req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Update handles PUT /api/collaborators/:id.
func (h *CollaboratorsHandler) Update(c *fiber.Ctx) error {
	var req dto.CollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	id, err := h.org.SaveCollaborator(c.Context(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Delete handles DELETE /api/collaborators/:id.
func (h *CollaboratorsHandler) Delete(c *fiber.Ctx) error {
	if err := h.org.DeleteCollaborator(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// BulkDelete handles POST /api/collaborators/bulk-delete. The requested
// selection is intersected with the currently visible filtered listing
// before the atomic batch delete runs.
func (h *CollaboratorsHandler) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	visible := repository.FilterCollaborators(h.directory.Collaborators(), repository.CollaboratorFilter{
		Name:         req.Filters.Name,
		Email:        req.Filters.Email,
		DepartmentID: req.Filters.DepartmentID,
	})
	visibleIDs := make([]string, 0, len(visible))
	for _, collab := range visible {
		visibleIDs = append(visibleIDs, collab.ID)
	}

	selection := readmodel.NewSelection()
	if req.All {
		selection.SelectAll(visibleIDs)
	} else {
		for _, id := range req.IDs {
			selection.Toggle(id)
		}
		selection.Prune(visibleIDs)
	}
	if selection.Len() == 0 {
		return apperrors.NewValidationError("no collaborators selected", nil)
	}

	if err := h.org.BulkDeleteCollaborators(c.Context(), selection.IDs()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": selection.Len()}})
}

// Stream handles GET /api/collaborators/stream: a server-sent event stream
// delivering the full snapshot on every change until the client disconnects.
func (h *CollaboratorsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	subscribe := func(fn func(any)) func() {
		return h.repo.Subscribe(func(list []domain.Collaborator) {
			fn(dto.FromCollaborators(list))
		})
	}
	c.Context().SetBodyStreamWriter(snapshotStream(subscribe, streamHeartbeat))
	return nil
}

// streamHeartbeat paces the keep-alive comments that surface a dead client
// between collection changes.
const streamHeartbeat = 15 * time.Second

// snapshotStream pumps subscription snapshots into an SSE body writer.
// Delivery stops when a write fails; the heartbeat guarantees a write
// happens even while the collection is idle, so an abandoned connection
// cannot hold the subscription open forever.
func snapshotStream(subscribe func(fn func(any)) func(), heartbeat time.Duration) func(w *bufio.Writer) {
	return func(w *bufio.Writer) {
		snapshots := make(chan any, 1)
		cancel := subscribe(func(snapshot any) {
			// keep only the latest snapshot when the client is slow
			for {
				select {
				case snapshots <- snapshot:
					return
				default:
					select {
					case <-snapshots:
					default:
					}
				}
			}
		})
		defer cancel()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case snapshot := <-snapshots:
				payload, err := json.Marshal(snapshot)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}
}
