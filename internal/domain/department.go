package domain

// Department is an organizational unit. CollaboratorIDs is the authoritative
// membership list maintained on the department record itself; it is only
// rewritten wholesale on a department save, so entries can go stale when a
// member collaborator is deleted.
type Department struct {
	ID              string   `json:"-"`
	Name            string   `json:"name"`
	ManagerID       string   `json:"managerId"`
	ManagerName     string   `json:"managerName"`
	CollaboratorIDs []string `json:"collaboratorIds"`
}
