package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
)

func sampleCollaborators() []domain.Collaborator {
	return []domain.Collaborator{
		{ID: "1", Name: "Ana Souza", Email: "ana@flugo.com", DepartmentID: "d1", Status: domain.StatusActive},
		{ID: "2", Name: "Bruno Lima", Email: "bruno@flugo.com", DepartmentID: "d2", Status: domain.StatusInactive},
		{ID: "3", Name: "Carla Anadia", Email: "carla@other.com", DepartmentID: "d1", Status: domain.StatusActive},
		{ID: "4", Name: "diego prado", Email: "diego@flugo.com", DepartmentID: "", Status: domain.StatusActive},
	}
}

func ids(list []domain.Collaborator) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func TestFilterEmptyMatchesEverything(t *testing.T) {
	list := sampleCollaborators()

	got := FilterCollaborators(list, CollaboratorFilter{})
	assert.Equal(t, ids(list), ids(got))
}

func TestFilterNameIsCaseInsensitiveSubstring(t *testing.T) {
	got := FilterCollaborators(sampleCollaborators(), CollaboratorFilter{Name: "ANA"})
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestFilterDepartmentIsExact(t *testing.T) {
	got := FilterCollaborators(sampleCollaborators(), CollaboratorFilter{DepartmentID: "d1"})
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = FilterCollaborators(sampleCollaborators(), CollaboratorFilter{DepartmentID: "d"})
	assert.Empty(t, ids(got))
}

func TestFilterCriteriaIntersect(t *testing.T) {
	got := FilterCollaborators(sampleCollaborators(), CollaboratorFilter{
		Name:         "ana",
		Email:        "flugo",
		DepartmentID: "d1",
	})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterPreservesInputOrder(t *testing.T) {
	list := sampleCollaborators()
	// reverse the input so preserved order is observably different
	reversed := []domain.Collaborator{list[3], list[2], list[1], list[0]}

	got := FilterCollaborators(reversed, CollaboratorFilter{Email: "flugo"})
	assert.Equal(t, []string{"4", "2", "1"}, ids(got))
}

func TestSortDescIsReverseOfAsc(t *testing.T) {
	list := sampleCollaborators()

	for _, field := range []string{"name", "email", "departmentId", "status"} {
		asc := SortCollaborators(list, field, SortAsc)
		desc := SortCollaborators(list, field, SortDesc)
		require.Len(t, desc, len(asc))
		for i := range asc {
			assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID,
				"field %s position %d", field, i)
		}
	}
}

func TestSortIsCaseInsensitive(t *testing.T) {
	got := SortCollaborators(sampleCollaborators(), "name", SortAsc)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestSortUnknownFieldFallsBackToName(t *testing.T) {
	got := SortCollaborators(sampleCollaborators(), "favoriteColor", SortAsc)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestSortIsStableOnTies(t *testing.T) {
	list := []domain.Collaborator{
		{ID: "x", Name: "Zed", DepartmentID: "d1"},
		{ID: "y", Name: "Amy", DepartmentID: "d1"},
		{ID: "z", Name: "Mia", DepartmentID: "d1"},
	}

	got := SortCollaborators(list, "departmentId", SortAsc)
	assert.Equal(t, []string{"x", "y", "z"}, ids(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	list := sampleCollaborators()
	SortCollaborators(list, "name", SortDesc)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(list))
}
