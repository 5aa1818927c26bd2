package questions

import (
	"context"
	"errors"
	"testing"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestStore() (*Store, *records.MemStore, *records.CaptureNotifier) {
	mem := records.NewMemStore()
	notifier := &records.CaptureNotifier{}
	store := NewStore(mem, notifier, WithCreateSettle(10*time.Millisecond))
	return store, mem, notifier
}

func persistedQuestion(order int) models.Question {
	now := time.Now()
	return models.Question{
		ID:        primitive.NewObjectID(),
		Type:      models.ShortAnswer,
		Title:     "q",
		Required:  true,
		Order:     order,
		CreatedAt: &now,
	}
}

func TestLoadRenumbersRootQuestions(t *testing.T) {
	store, _, _ := newTestStore()
	formID := primitive.NewObjectID()

	// stored orders have gaps from past deletions
	qs := []models.Question{
		persistedQuestion(7),
		persistedQuestion(2),
		persistedQuestion(12),
	}
	store.Load(formID, qs)

	root := store.Root()
	require.Len(t, root, 3)
	assert.Equal(t, qs[1].ID, root[0].ID)
	assert.Equal(t, qs[0].ID, root[1].ID)
	assert.Equal(t, qs[2].ID, root[2].ID)
	for i, q := range root {
		assert.Equal(t, i+1, q.Order)
	}
}

func TestLoadExcludesTombstonesAndChildren(t *testing.T) {
	store, _, _ := newTestStore()

	deleted := persistedQuestion(1)
	now := time.Now()
	deleted.DeletedAt = &now

	parent := persistedQuestion(2)
	child := persistedQuestion(3)
	child.ParentID = &parent.ID

	store.Load(primitive.NewObjectID(), []models.Question{deleted, parent, child})

	root := store.Root()
	require.Len(t, root, 1)
	assert.Equal(t, parent.ID, root[0].ID)

	// tombstone stays reachable by id
	got := store.Get(deleted.ID.Hex())
	require.NotNil(t, got)
	assert.True(t, got.Deleted())
}

func TestAddDefaults(t *testing.T) {
	store, mem, _ := newTestStore()
	formID := primitive.NewObjectID()
	store.Load(formID, []models.Question{persistedQuestion(1), persistedQuestion(2)})

	q, err := store.Add(context.Background(), models.Question{})
	require.NoError(t, err)

	assert.Equal(t, models.ShortAnswer, q.Type)
	assert.True(t, q.Required)
	assert.Equal(t, 3, q.Order)
	assert.Equal(t, formID, q.FormID)
	assert.Equal(t, 1, mem.CreateQuestionCalls)

	root := store.Root()
	require.Len(t, root, 3)
	assert.Equal(t, q.ID, root[2].ID)
}

func TestAddFailureCachesNothing(t *testing.T) {
	store, mem, _ := newTestStore()
	store.Load(primitive.NewObjectID(), nil)
	mem.CreateErr = errors.New("boom")

	q, err := store.Add(context.Background(), models.Question{})
	assert.Error(t, err)
	assert.Nil(t, q)
	assert.Empty(t, store.Root())
}

func TestUpdateDiffGuard(t *testing.T) {
	store, mem, _ := newTestStore()
	q := persistedQuestion(1)
	q.Title = "unchanged"
	store.Load(primitive.NewObjectID(), []models.Question{q})

	cached := store.Get(q.ID.Hex())
	store.Update(context.Background(), cached, models.QuestionPatch{Title: models.StrPtr("unchanged")})

	assert.Equal(t, 0, mem.UpdateQuestionCalls)
}

func TestUpdatePersistedPushesImmediately(t *testing.T) {
	store, mem, _ := newTestStore()
	q := persistedQuestion(1)
	store.Load(primitive.NewObjectID(), []models.Question{q})

	cached := store.Get(q.ID.Hex())
	store.Update(context.Background(), cached, models.QuestionPatch{Title: models.StrPtr("new title")})

	assert.Equal(t, "new title", store.Get(q.ID.Hex()).Title)
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
}

func TestUpdateNeverPersistedIsDelayed(t *testing.T) {
	store, mem, _ := newTestStore()
	q := persistedQuestion(1)
	q.CreatedAt = nil
	store.Load(primitive.NewObjectID(), []models.Question{q})

	cached := store.Get(q.ID.Hex())
	store.Update(context.Background(), cached, models.QuestionPatch{Title: models.StrPtr("typed fast")})

	// local cache updated at once, remote write held back
	assert.Equal(t, "typed fast", store.Get(q.ID.Hex()).Title)
	assert.Equal(t, 0, mem.UpdateQuestionCalls)

	store.Flush()
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
	assert.Equal(t, 1, mem.UpdatesByID[q.ID.Hex()])
}

func TestUpdateRemoteFailureKeepsLocalValue(t *testing.T) {
	store, mem, notifier := newTestStore()
	q := persistedQuestion(1)
	q.Title = "before"
	store.Load(primitive.NewObjectID(), []models.Question{q})
	mem.UpdateErr = errors.New("store down")

	cached := store.Get(q.ID.Hex())
	store.Update(context.Background(), cached, models.QuestionPatch{Title: models.StrPtr("after")})

	// optimistic value survives, user gets a toast instead of a rollback
	assert.Equal(t, "after", store.Get(q.ID.Hex()).Title)
	assert.NotEmpty(t, notifier.Errors)
}

func TestDeleteTombstones(t *testing.T) {
	store, mem, _ := newTestStore()
	a := persistedQuestion(1)
	b := persistedQuestion(2)
	store.Load(primitive.NewObjectID(), []models.Question{a, b})

	store.Delete(context.Background(), store.Get(a.ID.Hex()))

	root := store.Root()
	require.Len(t, root, 1)
	assert.Equal(t, b.ID, root[0].ID)

	got := store.Get(a.ID.Hex())
	require.NotNil(t, got)
	assert.True(t, got.Deleted())
	assert.Equal(t, 1, mem.UpdateQuestionCalls)

	// second delete is a no-op
	store.Delete(context.Background(), got)
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
}

func TestResetDropsState(t *testing.T) {
	store, _, _ := newTestStore()
	q := persistedQuestion(1)
	store.Load(primitive.NewObjectID(), []models.Question{q})

	store.Reset()
	assert.Nil(t, store.Get(q.ID.Hex()))
	assert.Empty(t, store.Root())
}
