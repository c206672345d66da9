package repository

import (
	"sort"
	"strconv"
	"strings"

	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
)

// CollaboratorFilter selects collaborators from a snapshot. Name and Email
// are case-insensitive substring matches, DepartmentID is an exact match;
// empty values match everything.
type CollaboratorFilter struct {
	Name         string
	Email        string
	DepartmentID string
}

// Matches evaluates the filter against one record.
func (f CollaboratorFilter) Matches(c domain.Collaborator) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Email != "" && !strings.Contains(strings.ToLower(c.Email), strings.ToLower(f.Email)) {
		return false
	}
	if f.DepartmentID != "" && c.DepartmentID != f.DepartmentID {
		return false
	}
	return true
}

// FilterCollaborators returns the records matching the filter, preserving
// input order.
func FilterCollaborators(list []domain.Collaborator, f CollaboratorFilter) []domain.Collaborator {
	result := make([]domain.Collaborator, 0, len(list))
	for _, c := range list {
		if f.Matches(c) {
			result = append(result, c)
		}
	}
	return result
}

// SortDirection orders a sorted listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortCollaborators returns a new slice ordered by the string-cast value of
// the named field, compared case-insensitively. The sort is stable so ties
// keep their incoming order.
func SortCollaborators(list []domain.Collaborator, field string, dir SortDirection) []domain.Collaborator {
	sorted := append([]domain.Collaborator(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a := strings.ToLower(collaboratorField(sorted[i], field))
		b := strings.ToLower(collaboratorField(sorted[j], field))
		if dir == SortDesc {
			return a > b
		}
		return a < b
	})
	return sorted
}

func collaboratorField(c domain.Collaborator, field string) string {
	switch field {
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "departmentId":
		return c.DepartmentID
	case "departmentName":
		return c.DepartmentName
	case "status":
		return string(c.Status)
	case "level":
		return string(c.Level)
	case "jobTitle":
		return c.JobTitle
	case "admissionDate":
		return c.AdmissionDate
	case "managerName":
		return c.ManagerName
	case "baseSalary":
		return strconv.FormatFloat(c.BaseSalary, 'f', -1, 64)
	default:
		return c.Name
	}
}
