package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCollaboratorSaved       EventType = "collaborator_saved"
	EventCollaboratorDeleted     EventType = "collaborator_deleted"
	EventCollaboratorsBulkDelete EventType = "collaborators_bulk_deleted"
	EventDepartmentSaved         EventType = "department_saved"
	EventDepartmentDeleted       EventType = "department_deleted"
	EventMembershipRelinked      EventType = "membership_relinked"
)

// Event represents a coordinator action emitted after the write settled.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// DepartmentSavedPayload payload.
type DepartmentSavedPayload struct {
	Name        string `json:"name"`
	ManagerID   string `json:"manager_id,omitempty"`
	MemberCount int    `json:"member_count"`
	Relinked    int    `json:"relinked"`
	IsNewRecord bool   `json:"is_new_record"`
}

// CollaboratorSavedPayload payload.
type CollaboratorSavedPayload struct {
	Name         string `json:"name"`
	DepartmentID string `json:"department_id,omitempty"`
	IsNewRecord  bool   `json:"is_new_record"`
}

// BulkDeletePayload payload.
type BulkDeletePayload struct {
	IDs []string `json:"ids"`
}

// MembershipRelinkedPayload payload, one per collaborator rewritten by a
// department save cascade.
type MembershipRelinkedPayload struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	CollaboratorID string `json:"collaborator_id"`
}
