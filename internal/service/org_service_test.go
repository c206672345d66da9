package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EdersonPinheiro/desafio-flugo/internal/docstore"
	"github.com/EdersonPinheiro/desafio-flugo/internal/domain"
	"github.com/EdersonPinheiro/desafio-flugo/internal/events"
	"github.com/EdersonPinheiro/desafio-flugo/internal/observability"
	"github.com/EdersonPinheiro/desafio-flugo/internal/readmodel"
	"github.com/EdersonPinheiro/desafio-flugo/internal/repository"
	"github.com/EdersonPinheiro/desafio-flugo/pkg/util"
)

type orgFixture struct {
	store         *docstore.Store
	collaborators *repository.CollaboratorRepository
	departments   *repository.DepartmentRepository
	directory     *readmodel.Directory
	metrics       *observability.Metrics
	dispatcher    *recordingDispatcher
	org           *OrgService
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()
	logger := zap.NewNop()
	store := docstore.New(docstore.NewMemoryBackend(), nil, logger)
	t.Cleanup(store.Close)

	collabs := repository.NewCollaboratorRepository(store, logger)
	depts := repository.NewDepartmentRepository(store, logger)
	dir := readmodel.NewDirectory(collabs, depts)
	t.Cleanup(dir.Close)

	metrics := observability.NewMetrics()
	dispatcher := &recordingDispatcher{}
	org := NewOrgService(OrgDependencies{
		CollaboratorRepo: collabs,
		DepartmentRepo:   depts,
		Directory:        dir,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})
	return &orgFixture{
		store:         store,
		collaborators: collabs,
		departments:   depts,
		directory:     dir,
		metrics:       metrics,
		dispatcher:    dispatcher,
		org:           org,
	}
}

func (f *orgFixture) mustSaveCollaborator(t *testing.T, input CollaboratorInput) string {
	t.Helper()
	id, err := f.org.SaveCollaborator(context.Background(), "", input)
	require.NoError(t, err)
	return id
}

func TestSaveDepartmentRelinksMembers(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})
	bruno := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Bruno", Email: "bruno@flugo.com"})

	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana, bruno},
	})
	require.NoError(t, err)
	require.NotEmpty(t, deptID)

	for _, id := range []string{ana, bruno} {
		got, err := f.collaborators.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, deptID, got.DepartmentID)
		assert.Equal(t, "Engineering", got.DepartmentName)
	}

	dept, err := f.departments.Get(ctx, deptID)
	require.NoError(t, err)
	assert.Equal(t, []string{ana, bruno}, dept.CollaboratorIDs)
	assert.EqualValues(t, 2, f.metrics.CascadeWrites("save_department"))
}

func TestSaveDepartmentRelinkKeepsUnrelatedFields(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{
		Name:  "Ana",
		Email: "ana@flugo.com",
		Phone: "+55 11 91234-5678",
	})

	_, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)

	got, err := f.collaborators.Get(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, "ana@flugo.com", got.Email, "membership patch must not clobber other fields")
	assert.Equal(t, "+55 11 91234-5678", got.Phone)
}

func TestSaveDepartmentSkipsAlreadyLinkedMembers(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})

	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, f.metrics.CascadeWrites("save_department"))

	_, err = f.org.SaveDepartment(ctx, deptID, DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.metrics.CascadeWrites("save_department"),
		"already linked member must not be rewritten")
}

func TestSaveDepartmentRenamePropagatesToMembers(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})

	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)

	_, err = f.org.SaveDepartment(ctx, deptID, DepartmentInput{
		Name:      "Platform Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)

	got, err := f.collaborators.Get(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", got.DepartmentName)
}

func TestSaveDepartmentRequiresName(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.org.SaveDepartment(context.Background(), "", DepartmentInput{Name: "   "})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestSaveDepartmentRejectsNonManagerManager(t *testing.T) {
	f := newOrgFixture(t)

	junior := f.mustSaveCollaborator(t, CollaboratorInput{
		Name: "Bruno", Email: "bruno@flugo.com", Level: domain.LevelJunior,
	})

	_, err := f.org.SaveDepartment(context.Background(), "", DepartmentInput{
		Name:      "Engineering",
		ManagerID: junior,
	})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestSaveDepartmentResolvesManagerName(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	carla := f.mustSaveCollaborator(t, CollaboratorInput{
		Name: "Carla", Email: "carla@flugo.com", Level: domain.LevelManager,
	})

	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		ManagerID: carla,
	})
	require.NoError(t, err)

	dept, err := f.departments.Get(ctx, deptID)
	require.NoError(t, err)
	assert.Equal(t, carla, dept.ManagerID)
	assert.Equal(t, "Carla", dept.ManagerName)
}

func TestDeleteDepartmentBlockedByLinkedCollaborators(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})
	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)

	err = f.org.DeleteDepartment(ctx, deptID)
	require.Error(t, err)
	assert.True(t, util.IsDependencyError(err))

	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Engineering", domainErr.Details["department_name"])
	assert.Equal(t, 1, domainErr.Details["collaborators"])

	// the guard performed no mutation
	_, err = f.departments.Get(ctx, deptID)
	assert.NoError(t, err)
	got, err := f.collaborators.Get(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, deptID, got.DepartmentID)
}

func TestDeleteDepartmentSucceedsOnceUnlinked(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})
	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)

	require.Error(t, f.org.DeleteDepartment(ctx, deptID))

	require.NoError(t, f.org.DeleteCollaborator(ctx, ana))
	require.NoError(t, f.org.DeleteDepartment(ctx, deptID))

	_, err = f.departments.Get(ctx, deptID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDeleteCollaboratorLeavesDepartmentListStale(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})
	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana},
	})
	require.NoError(t, err)

	require.NoError(t, f.org.DeleteCollaborator(ctx, ana))

	// collaboratorIds is only rewritten on the next department save
	dept, err := f.departments.Get(ctx, deptID)
	require.NoError(t, err)
	assert.Contains(t, dept.CollaboratorIDs, ana)
}

func TestBulkDeleteIsAllOrNothing(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	a := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})
	c := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Carla", Email: "carla@flugo.com"})

	err := f.org.BulkDeleteCollaborators(ctx, []string{a, "missing", c})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	_, err = f.collaborators.Get(ctx, a)
	assert.NoError(t, err, "failed batch must leave every record in place")
	_, err = f.collaborators.Get(ctx, c)
	assert.NoError(t, err)

	require.NoError(t, f.org.BulkDeleteCollaborators(ctx, []string{a, c}))
	remaining, err := f.collaborators.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestBulkDeleteEmptySelectionIsNoop(t *testing.T) {
	f := newOrgFixture(t)

	assert.NoError(t, f.org.BulkDeleteCollaborators(context.Background(), nil))
}

func TestSaveCollaboratorAppliesDefaults(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	id := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana Souza", Email: "ana@flugo.com"})

	got, err := f.collaborators.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Colaborador", got.JobTitle)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, domain.LevelJunior, got.Level)
	assert.NotEmpty(t, got.AdmissionDate)
	assert.Contains(t, got.Avatar, "dicebear")
}

func TestSaveCollaboratorResolvesDepartmentName(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{Name: "People"})
	require.NoError(t, err)

	id := f.mustSaveCollaborator(t, CollaboratorInput{
		Name:         "Ana",
		Email:        "ana@flugo.com",
		DepartmentID: deptID,
	})

	got, err := f.collaborators.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "People", got.DepartmentName)
}

func TestSaveCollaboratorClearsRemovedRelationships(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	boss := f.mustSaveCollaborator(t, CollaboratorInput{
		Name: "Boss", Email: "boss@flugo.com", Level: domain.LevelManager,
	})
	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{Name: "Engineering"})
	require.NoError(t, err)

	ana := f.mustSaveCollaborator(t, CollaboratorInput{
		Name:         "Ana",
		Email:        "ana@flugo.com",
		DepartmentID: deptID,
		ManagerID:    boss,
	})

	got, err := f.collaborators.Get(ctx, ana)
	require.NoError(t, err)
	require.Equal(t, "Engineering", got.DepartmentName)
	require.Equal(t, "Boss", got.ManagerName)

	// saving without department or manager must clear the denormalized
	// names along with the ids
	_, err = f.org.SaveCollaborator(ctx, ana, CollaboratorInput{
		Name:  "Ana",
		Email: "ana@flugo.com",
	})
	require.NoError(t, err)

	got, err = f.collaborators.Get(ctx, ana)
	require.NoError(t, err)
	assert.Empty(t, got.DepartmentID)
	assert.Empty(t, got.DepartmentName)
	assert.Empty(t, got.ManagerID)
	assert.Empty(t, got.ManagerName)
}

func TestSaveDepartmentPublishesRelinkEvents(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	ana := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})
	bruno := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Bruno", Email: "bruno@flugo.com"})

	deptID, err := f.org.SaveDepartment(ctx, "", DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana, bruno},
	})
	require.NoError(t, err)

	relinks := f.dispatcher.byType(events.EventMembershipRelinked)
	require.Len(t, relinks, 2)
	for _, event := range relinks {
		payload, ok := event.Payload.(events.MembershipRelinkedPayload)
		require.True(t, ok)
		assert.Equal(t, deptID, payload.DepartmentID)
		assert.Equal(t, "Engineering", payload.DepartmentName)
		assert.Equal(t, event.EntityID, payload.CollaboratorID)
	}

	saved := f.dispatcher.byType(events.EventDepartmentSaved)
	require.Len(t, saved, 1)
	payload, ok := saved[0].Payload.(events.DepartmentSavedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.Relinked)

	// an unchanged re-save relinks nobody and publishes nothing new
	_, err = f.org.SaveDepartment(ctx, deptID, DepartmentInput{
		Name:      "Engineering",
		MemberIDs: []string{ana, bruno},
	})
	require.NoError(t, err)
	assert.Len(t, f.dispatcher.byType(events.EventMembershipRelinked), 2)
}

func TestSaveCollaboratorValidation(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		input  CollaboratorInput
		detail string
	}{
		{"missing name", CollaboratorInput{Email: "a@b.com"}, "name"},
		{"missing email", CollaboratorInput{Name: "Ana"}, "email"},
		{"malformed email", CollaboratorInput{Name: "Ana", Email: "not-an-email"}, "email"},
		{"unknown status", CollaboratorInput{Name: "Ana", Email: "a@b.com", Status: "paused"}, "status"},
		{"unknown level", CollaboratorInput{Name: "Ana", Email: "a@b.com", Level: "principal"}, "level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.org.SaveCollaborator(ctx, "", tc.input)
			var domainErr *util.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Contains(t, domainErr.Details, tc.detail)
		})
	}
}

func TestSaveCollaboratorRejectsSelfManager(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	id := f.mustSaveCollaborator(t, CollaboratorInput{Name: "Ana", Email: "ana@flugo.com"})

	_, err := f.org.SaveCollaborator(ctx, id, CollaboratorInput{
		Name:      "Ana",
		Email:     "ana@flugo.com",
		ManagerID: id,
	})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details, "managerId")
}

func TestSaveCollaboratorUpdateMissingRecord(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.org.SaveCollaborator(context.Background(), "ghost", CollaboratorInput{
		Name:  "Ana",
		Email: "ana@flugo.com",
	})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
