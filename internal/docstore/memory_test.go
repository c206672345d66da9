package docstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendListOrdersByName(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	require.NoError(t, backend.Insert(ctx, "collaborators", "c1", []byte(`{"name":"Carla"}`)))
	require.NoError(t, backend.Insert(ctx, "collaborators", "c2", []byte(`{"name":"Ana"}`)))
	require.NoError(t, backend.Insert(ctx, "collaborators", "c3", []byte(`{"name":"Bruno"}`)))

	docs, err := backend.List(ctx, "collaborators")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"c2", "c3", "c1"}, []string{docs[0].ID, docs[1].ID, docs[2].ID})
}

func TestMemoryBackendGetMissing(t *testing.T) {
	backend := NewMemoryBackend()

	_, err := backend.Get(context.Background(), "departments", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackendMergeKeepsOmittedFields(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	require.NoError(t, backend.Insert(ctx, "collaborators", "c1",
		[]byte(`{"name":"Ana","email":"ana@flugo.com","departmentId":""}`)))
	require.NoError(t, backend.Merge(ctx, "collaborators", "c1",
		[]byte(`{"departmentId":"d1","departmentName":"Engineering"}`)))

	doc, err := backend.Get(ctx, "collaborators", "c1")
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(doc.Data, &fields))
	assert.Equal(t, "Ana", fields["name"])
	assert.Equal(t, "ana@flugo.com", fields["email"])
	assert.Equal(t, "d1", fields["departmentId"])
	assert.Equal(t, "Engineering", fields["departmentName"])
}

func TestMemoryBackendMergeMissing(t *testing.T) {
	backend := NewMemoryBackend()

	err := backend.Merge(context.Background(), "collaborators", "ghost", []byte(`{"name":"x"}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackendInsertOverwrites(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	require.NoError(t, backend.Insert(ctx, "departments", "d1", []byte(`{"name":"Old"}`)))
	require.NoError(t, backend.Insert(ctx, "departments", "d1", []byte(`{"name":"New"}`)))

	doc, err := backend.Get(ctx, "departments", "d1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"New"}`, string(doc.Data))
}

func TestMemoryBackendDeleteManyAllOrNothing(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	require.NoError(t, backend.Insert(ctx, "collaborators", "a", []byte(`{"name":"A"}`)))
	require.NoError(t, backend.Insert(ctx, "collaborators", "c", []byte(`{"name":"C"}`)))

	err := backend.DeleteMany(ctx, "collaborators", []string{"a", "b", "c"})
	require.ErrorIs(t, err, ErrNotFound)

	// a missing id fails the whole batch: nothing was removed
	_, err = backend.Get(ctx, "collaborators", "a")
	assert.NoError(t, err)
	_, err = backend.Get(ctx, "collaborators", "c")
	assert.NoError(t, err)

	require.NoError(t, backend.DeleteMany(ctx, "collaborators", []string{"a", "c"}))
	_, err = backend.Get(ctx, "collaborators", "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackendDeleteMissingIsNoop(t *testing.T) {
	backend := NewMemoryBackend()

	assert.NoError(t, backend.Delete(context.Background(), "collaborators", "ghost"))
}
