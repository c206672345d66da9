package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/events"
	"github.com/EdersonPinheiro/desafio-flugo/internal/observability"
	"github.com/EdersonPinheiro/desafio-flugo/internal/readmodel"
	"github.com/EdersonPinheiro/desafio-flugo/internal/repository"
	"github.com/EdersonPinheiro/desafio-flugo/pkg/avatar"
	"github.com/EdersonPinheiro/desafio-flugo/pkg/util"
)

const defaultJobTitle = "Colaborador"

// OrgService coordinates writes that span the collaborators and departments
// collections. The store offers no cross-collection transaction: cascades
// are individually awaited writes, and a failure mid-cascade propagates to
// the caller with the collections left for a manual retry.
type OrgService struct {
	collaborators *repository.CollaboratorRepository
	departments   *repository.DepartmentRepository
	directory     *readmodel.Directory
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// OrgDependencies bundles what the service needs.
type OrgDependencies struct {
	CollaboratorRepo *repository.CollaboratorRepository
	DepartmentRepo   *repository.DepartmentRepository
	Directory        *readmodel.Directory
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewOrgService constructs the service.
func NewOrgService(deps OrgDependencies) *OrgService {
	return &OrgService{
		collaborators: deps.CollaboratorRepo,
		departments:   deps.DepartmentRepo,
		directory:     deps.Directory,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}
}

// DepartmentInput describes a department save payload.
type DepartmentInput struct {
	Name      string
	ManagerID string
	MemberIDs []string
}

// CollaboratorInput describes a collaborator save payload.
type CollaboratorInput struct {
	Name          string
	Email         string
	CPF           string
	Phone         string
	CEP           string
	Street        string
	Number        string
	Complement    string
	Neighborhood  string
	City          string
	State         string
	JobTitle      string
	DepartmentID  string
	AdmissionDate string
	Level         domain.Level
	ManagerID     string
	ManagerName   string
	BaseSalary    float64
	Status        domain.Status
	Avatar        string
}

// SaveDepartment writes a department and relinks every member collaborator's
// departmentId/departmentName to it. Members already correctly linked are
// skipped. An empty id creates a new record; the department id is returned.
func (s *OrgService) SaveDepartment(ctx context.Context, id string, input DepartmentInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", util.NewValidationError("department name is required", map[string]any{"field": "name"})
	}

	managerName := ""
	if input.ManagerID != "" {
		manager := s.directory.Collaborator(input.ManagerID)
		if manager != nil {
			if manager.Level != domain.LevelManager {
				return "", util.NewValidationError("managerId must reference a manager-level collaborator",
					map[string]any{"field": "managerId"})
			}
			managerName = manager.Name
		}
	}

	memberIDs := make([]string, 0, len(input.MemberIDs))
	for _, memberID := range input.MemberIDs {
		if memberID != "" {
			memberIDs = append(memberIDs, memberID)
		}
	}

	dept := domain.Department{
		Name:            name,
		ManagerID:       input.ManagerID,
		ManagerName:     managerName,
		CollaboratorIDs: memberIDs,
	}

	isNew := id == ""
	if isNew {
		pending, err := s.departments.Propose(dept)
		if err != nil {
			return "", err
		}
		if err := pending.Commit(ctx); err != nil {
			return "", fmt.Errorf("save department: %w", err)
		}
		id = pending.LocalID
	} else {
		if err := s.departments.Update(ctx, id, dept); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return "", util.NewNotFound("department", map[string]any{"id": id})
			}
			return "", fmt.Errorf("save department: %w", err)
		}
	}

	relinked := 0
	for _, memberID := range memberIDs {
		member := s.directory.Collaborator(memberID)
		if member == nil {
			s.logger.Warn("membership cascade skipping unknown collaborator",
				zap.String("department_id", id), zap.String("collaborator_id", memberID))
			continue
		}
		if member.DepartmentID == id && member.DepartmentName == name {
			continue
		}
		link := domain.DepartmentLink{DepartmentID: id, DepartmentName: name}
		if err := s.collaborators.Update(ctx, memberID, link); err != nil {
			return "", fmt.Errorf("relink collaborator %s: %w", memberID, err)
		}
		relinked++
		s.publish(ctx, events.Event{
			Type:     events.EventMembershipRelinked,
			EntityID: memberID,
			Payload: events.MembershipRelinkedPayload{
				DepartmentID:   id,
				DepartmentName: name,
				CollaboratorID: memberID,
			},
		})
	}
	s.metrics.RecordCascade("save_department", relinked)

	s.publish(ctx, events.Event{
		Type:     events.EventDepartmentSaved,
		EntityID: id,
		Payload: events.DepartmentSavedPayload{
			Name:        name,
			ManagerID:   input.ManagerID,
			MemberCount: len(memberIDs),
			Relinked:    relinked,
			IsNewRecord: isNew,
		},
	})
	return id, nil
}

// DeleteDepartment removes a department unless any collaborator still
// references it, in which case it fails with a dependency error naming the
// department and the blocking count and performs no mutation.
func (s *OrgService) DeleteDepartment(ctx context.Context, id string) error {
	collaborators, err := s.collaborators.List(ctx)
	if err != nil {
		return fmt.Errorf("check department dependents: %w", err)
	}

	blocking := 0
	for _, c := range collaborators {
		if c.DepartmentID == id {
			blocking++
		}
	}
	if blocking > 0 {
		name := ""
		if dept := s.directory.Department(id); dept != nil {
			name = dept.Name
		}
		return util.NewDependencyError(
			fmt.Sprintf("department %q has collaborators linked to it", name),
			map[string]any{
				"department_id":   id,
				"department_name": name,
				"collaborators":   blocking,
			})
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.EventDepartmentDeleted, EntityID: id})
	return nil
}

// SaveCollaborator creates or merge-updates a collaborator, resolving the
// denormalized departmentName/managerName from the live in-memory snapshots.
func (s *OrgService) SaveCollaborator(ctx context.Context, id string, input CollaboratorInput) (string, error) {
	if err := s.validateCollaborator(id, &input); err != nil {
		return "", err
	}

	departmentName := ""
	if dept := s.directory.Department(input.DepartmentID); dept != nil {
		departmentName = dept.Name
	}
	managerName := ""
	if manager := s.directory.Collaborator(input.ManagerID); manager != nil {
		managerName = manager.Name
	}

	collab := domain.Collaborator{
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.TrimSpace(input.Email),
		CPF:            input.CPF,
		Phone:          input.Phone,
		CEP:            input.CEP,
		Street:         input.Street,
		Number:         input.Number,
		Complement:     input.Complement,
		Neighborhood:   input.Neighborhood,
		City:           input.City,
		State:          input.State,
		JobTitle:       input.JobTitle,
		DepartmentID:   input.DepartmentID,
		DepartmentName: departmentName,
		AdmissionDate:  input.AdmissionDate,
		Level:          input.Level,
		ManagerID:      input.ManagerID,
		ManagerName:    managerName,
		BaseSalary:     input.BaseSalary,
		Status:         input.Status,
		Avatar:         input.Avatar,
	}

	isNew := id == ""
	if isNew {
		if collab.JobTitle == "" {
			collab.JobTitle = defaultJobTitle
		}
		if collab.AdmissionDate == "" {
			collab.AdmissionDate = time.Now().Format("2006-01-02")
		}
		if collab.Avatar == "" {
			collab.Avatar = avatar.URL(collab.Name)
		}
		pending, err := s.collaborators.Propose(collab)
		if err != nil {
			return "", err
		}
		if err := pending.Commit(ctx); err != nil {
			return "", fmt.Errorf("save collaborator: %w", err)
		}
		id = pending.LocalID
	} else {
		if err := s.collaborators.Update(ctx, id, collab); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return "", util.NewNotFound("collaborator", map[string]any{"id": id})
			}
			return "", fmt.Errorf("save collaborator: %w", err)
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventCollaboratorSaved,
		EntityID: id,
		Payload: events.CollaboratorSavedPayload{
			Name:         collab.Name,
			DepartmentID: collab.DepartmentID,
			IsNewRecord:  isNew,
		},
	})
	return id, nil
}

// DeleteCollaborator removes one collaborator. The department's
// collaboratorIds list is deliberately not rewritten here; it stays stale
// until the department is next saved.
func (s *OrgService) DeleteCollaborator(ctx context.Context, id string) error {
	if err := s.collaborators.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete collaborator: %w", err)
	}
	s.publish(ctx, events.Event{Type: events.EventCollaboratorDeleted, EntityID: id})
	return nil
}

// BulkDeleteCollaborators removes the given ids as one all-or-nothing batch.
func (s *OrgService) BulkDeleteCollaborators(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.collaborators.DeleteMany(ctx, ids); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return util.NewNotFound("collaborator", map[string]any{"ids": ids})
		}
		return fmt.Errorf("bulk delete collaborators: %w", err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventCollaboratorsBulkDelete,
		Payload: events.BulkDeletePayload{IDs: ids},
	})
	return nil
}

func (s *OrgService) validateCollaborator(id string, input *CollaboratorInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		details["email"] = "required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "invalid"
	}

	if input.Status == "" {
		input.Status = domain.StatusActive
	} else if !input.Status.Valid() {
		details["status"] = "invalid"
	}
	if input.Level == "" {
		input.Level = domain.LevelJunior
	} else if !input.Level.Valid() {
		details["level"] = "invalid"
	}

	if input.ManagerID != "" {
		if id != "" && input.ManagerID == id {
			details["managerId"] = "cannot reference itself"
		} else if manager := s.directory.Collaborator(input.ManagerID); manager != nil && manager.Level != domain.LevelManager {
			details["managerId"] = "must reference a manager-level collaborator"
		}
	}

	if len(details) > 0 {
		return util.NewValidationError("invalid collaborator payload", details)
	}
	return nil
}

func (s *OrgService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
