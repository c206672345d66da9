package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/EdersonPinheiro/desafio-flugo/internal/api/dto"
	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/readmodel"
	"github.com/EdersonPinheiro/desafio-flugo/internal/repository"
	"github.com/EdersonPinheiro/desafio-flugo/internal/service"
	apperrors "github.com/EdersonPinheiro/desafio-flugo/pkg/util"
)

// DepartmentsHandler exposes department endpoints.
type DepartmentsHandler struct {
	org       *service.OrgService
	directory *readmodel.Directory
	repo      *repository.DepartmentRepository
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(org *service.OrgService, directory *readmodel.Directory, repo *repository.DepartmentRepository) *DepartmentsHandler {
	return &DepartmentsHandler{org: org, directory: directory, repo: repo}
}

// List handles GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.FromDepartments(h.directory.Departments())})
}

// Get handles GET /api/departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.repo.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperrors.NewNotFound("department", map[string]any{"id": c.Params("id")})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromDepartment(*dept)})
}

// Create handles POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	id, err := h.org.SaveDepartment(c.Context(), "", req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Update handles PUT /api/departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	id, err := h.org.SaveDepartment(c.Context(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Delete handles DELETE /api/departments/:id. Blocked with HAS_DEPENDENTS
// while collaborators still reference the department.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.org.DeleteDepartment(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Stream handles GET /api/departments/stream.
func (h *DepartmentsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	subscribe := func(fn func(any)) func() {
		return h.repo.Subscribe(func(list []domain.Department) {
			fn(dto.FromDepartments(list))
		})
	}
	c.Context().SetBodyStreamWriter(snapshotStream(subscribe, streamHeartbeat))
	return nil
}
