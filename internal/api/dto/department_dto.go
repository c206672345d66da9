package dto

import (
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/service"
)

// DepartmentRequest is the save payload for a department.
type DepartmentRequest struct {
	Name            string   `json:"name"`
	ManagerID       string   `json:"managerId"`
	CollaboratorIDs []string `json:"collaboratorIds"`
}

// ToInput converts the request into the coordinator's input.
func (r DepartmentRequest) ToInput() service.DepartmentInput {
	return service.DepartmentInput{
		Name:      r.Name,
		ManagerID: r.ManagerID,
		MemberIDs: r.CollaboratorIDs,
	}
}

// DepartmentResponse is the wire form of a department record.
type DepartmentResponse struct {
	ID string `json:"id"`
	domain.Department
}

// FromDepartment converts a domain record.
func FromDepartment(d domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Department: d}
}

// FromDepartments converts a snapshot.
func FromDepartments(list []domain.Department) []DepartmentResponse {
	result := make([]DepartmentResponse, 0, len(list))
	for _, d := range list {
		result = append(result, FromDepartment(d))
	}
	return result
}
