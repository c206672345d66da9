package domain

// Status enumerates collaborator activity states.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Level enumerates seniority levels. Only manager-level collaborators are
// eligible targets for managerId assignment.
type Level string

const (
	LevelJunior  Level = "junior"
	LevelPleno   Level = "pleno"
	LevelSenior  Level = "senior"
	LevelManager Level = "manager"
)

// Valid reports whether the level is a known value.
func (l Level) Valid() bool {
	switch l {
	case LevelJunior, LevelPleno, LevelSenior, LevelManager:
		return true
	}
	return false
}

// Collaborator is an HR record for one person. DepartmentName and
// ManagerName are denormalized caches of the referenced records' names,
// refreshed on every write that touches the relationship; they can go stale
// between a rename and the next write.
//
// Every field serializes unconditionally: saves go through a shallow merge,
// so a field omitted from the patch would keep its previous value instead
// of clearing. The id is store-assigned and held outside the payload.
type Collaborator struct {
	ID             string  `json:"-"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	CPF            string  `json:"cpf"`
	Phone          string  `json:"phone"`
	CEP            string  `json:"cep"`
	Street         string  `json:"street"`
	Number         string  `json:"number"`
	Complement     string  `json:"complement"`
	Neighborhood   string  `json:"neighborhood"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	JobTitle       string  `json:"jobTitle"`
	DepartmentID   string  `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	AdmissionDate  string  `json:"admissionDate"`
	Level          Level   `json:"level"`
	ManagerID      string  `json:"managerId"`
	ManagerName    string  `json:"managerName"`
	BaseSalary     float64 `json:"baseSalary"`
	Status         Status  `json:"status"`
	Avatar         string  `json:"avatar"`
}

// DepartmentLink is the merge-patch rewriting a collaborator's department
// membership during a department save cascade.
type DepartmentLink struct {
	DepartmentID   string `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
}
