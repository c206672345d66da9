package dto

import (
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/service"
)

// CollaboratorRequest is the save payload for a collaborator.
type CollaboratorRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	CPF           string  `json:"cpf"`
	Phone         string  `json:"phone"`
	CEP           string  `json:"cep"`
	Street        string  `json:"street"`
	Number        string  `json:"number"`
	Complement    string  `json:"complement"`
	Neighborhood  string  `json:"neighborhood"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	JobTitle      string  `json:"jobTitle"`
	DepartmentID  string  `json:"departmentId"`
	AdmissionDate string  `json:"admissionDate"`
	Level         string  `json:"level"`
	ManagerID     string  `json:"managerId"`
	BaseSalary    float64 `json:"baseSalary"`
	Status        string  `json:"status"`
	Avatar        string  `json:"avatar"`
}

// ToInput converts the request into the coordinator's input.
func (r CollaboratorRequest) ToInput() service.CollaboratorInput {
	return service.CollaboratorInput{
		Name:          r.Name,
		Email:         r.Email,
		CPF:           r.CPF,
		Phone:         r.Phone,
		CEP:           r.CEP,
		Street:        r.Street,
		Number:        r.Number,
		Complement:    r.Complement,
		Neighborhood:  r.Neighborhood,
		City:          r.City,
		State:         r.State,
		JobTitle:      r.JobTitle,
		DepartmentID:  r.DepartmentID,
		AdmissionDate: r.AdmissionDate,
		Level:         domain.Level(r.Level),
		ManagerID:     r.ManagerID,
		BaseSalary:    r.BaseSalary,
		Status:        domain.Status(r.Status),
		Avatar:        r.Avatar,
	}
}

// CollaboratorResponse is the wire form of a collaborator record.
type CollaboratorResponse struct {
	ID string `json:"id"`
	domain.Collaborator
}

// FromCollaborator converts a domain record.
func FromCollaborator(c domain.Collaborator) CollaboratorResponse {
	return CollaboratorResponse{ID: c.ID, Collaborator: c}
}

// FromCollaborators converts a snapshot.
func FromCollaborators(list []domain.Collaborator) []CollaboratorResponse {
	result := make([]CollaboratorResponse, 0, len(list))
	for _, c := range list {
		result = append(result, FromCollaborator(c))
	}
	return result
}

// BulkDeleteRequest selects collaborators to delete among the currently
// visible (filtered) listing. When All is set the whole visible set is
// selected; otherwise IDs are toggled in. Either way the selection is
// intersected with the visible set before deletion.
type BulkDeleteRequest struct {
	IDs     []string          `json:"ids"`
	All     bool              `json:"all"`
	Filters CollaboratorQuery `json:"filters"`
}

// CollaboratorQuery mirrors the listing filters.
type CollaboratorQuery struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"departmentId"`
}
