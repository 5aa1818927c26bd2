package docsync

import (
	"context"
	"testing"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/questions"
	"Backend-Rhea/src/services/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFixture() (*Synchronizer, *questions.Store, *records.MemStore) {
	mem := records.NewMemStore()
	store := questions.NewStore(mem, &records.CaptureNotifier{}, questions.WithCreateSettle(time.Millisecond))
	return New(store), store, mem
}

func loadQuestion(store *questions.Store, q models.Question) models.Question {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	now := time.Now()
	q.CreatedAt = &now
	store.Load(q.FormID, []models.Question{q})
	return q
}

func textQuestionBlock(id, title string) models.Block {
	return models.Block{
		Type:  models.BlockTextQuestion,
		Attrs: &models.BlockAttrs{ID: id},
		Content: []models.Block{
			{Type: models.BlockText, Text: title},
		},
	}
}

func choiceListBlock(id string, labels ...string) models.Block {
	b := models.Block{
		Type:  models.BlockChoiceList,
		Attrs: &models.BlockAttrs{ID: id},
	}
	for i, label := range labels {
		b.Content = append(b.Content, models.Block{
			Type:  models.BlockChoiceOption,
			Attrs: &models.BlockAttrs{Index: i},
			Text:  label,
		})
	}
	return b
}

func TestSaveQuestionTitle(t *testing.T) {
	sync, store, mem := newFixture()
	q := loadQuestion(store, models.Question{Type: models.ShortAnswer, Title: "old", Order: 1})

	block := textQuestionBlock(q.ID.Hex(), "What is your name?")
	sync.SaveQuestion(context.Background(), &block)

	assert.Equal(t, "What is your name?", store.Get(q.ID.Hex()).Title)
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
}

func TestSaveQuestionIdempotent(t *testing.T) {
	sync, store, mem := newFixture()
	q := loadQuestion(store, models.Question{Type: models.ShortAnswer, Title: "old", Order: 1})

	block := textQuestionBlock(q.ID.Hex(), "stable title")
	sync.SaveQuestion(context.Background(), &block)
	sync.SaveQuestion(context.Background(), &block)
	sync.SaveQuestion(context.Background(), &block)

	// unchanged content must not produce extra writes
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
}

func TestSaveQuestionOptionsRoundTrip(t *testing.T) {
	sync, store, mem := newFixture()
	q := loadQuestion(store, models.Question{Type: models.RadioButtons, Order: 1})

	block := choiceListBlock(q.ID.Hex(), "Red", "Green", "Blue")
	sync.SaveQuestion(context.Background(), &block)

	require.Equal(t, 1, mem.UpdateQuestionCalls)
	got := store.Get(q.ID.Hex())
	assert.Equal(t, "Red\nGreen\nBlue", got.Options)

	// rebuilding blocks from the stored encoding reproduces the same labels
	rebuilt := ChoiceOptionBlocks(got.Options)
	require.Len(t, rebuilt, 3)
	assert.Equal(t, "Red\nGreen\nBlue", OptionLabels(&models.Block{
		Type:    models.BlockChoiceList,
		Content: rebuilt,
	}))
}

func TestSaveQuestionUnknownIDIgnored(t *testing.T) {
	sync, _, mem := newFixture()

	block := textQuestionBlock(primitive.NewObjectID().Hex(), "orphan")
	sync.SaveQuestion(context.Background(), &block)

	assert.Equal(t, 0, mem.UpdateQuestionCalls)
	assert.Equal(t, 0, mem.CreateQuestionCalls)
}

func TestSaveQuestionNoIDIgnored(t *testing.T) {
	sync, _, mem := newFixture()

	block := models.Block{Type: models.BlockTextQuestion, Content: []models.Block{
		{Type: models.BlockText, Text: "not yet backed"},
	}}
	sync.SaveQuestion(context.Background(), &block)

	assert.Equal(t, 0, mem.UpdateQuestionCalls)
}

func TestSyncDocumentDeletesDisappearedQuestions(t *testing.T) {
	sync, store, mem := newFixture()

	now := time.Now()
	formID := primitive.NewObjectID()
	a := models.Question{ID: primitive.NewObjectID(), FormID: formID, Type: models.ShortAnswer, Title: "A", Order: 1, CreatedAt: &now}
	b := models.Question{ID: primitive.NewObjectID(), FormID: formID, Type: models.ShortAnswer, Title: "B", Order: 2, CreatedAt: &now}
	c := models.Question{ID: primitive.NewObjectID(), FormID: formID, Type: models.ShortAnswer, Title: "C", Order: 3, CreatedAt: &now}
	store.Load(formID, []models.Question{a, b, c})

	// C's block was removed from the document
	doc := models.NewDoc(
		textQuestionBlock(a.ID.Hex(), "A"),
		textQuestionBlock(b.ID.Hex(), "B"),
	)
	sync.SyncDocument(context.Background(), doc)
	store.Flush()

	assert.True(t, store.Get(c.ID.Hex()).Deleted())
	assert.False(t, store.Get(a.ID.Hex()).Deleted())
	assert.False(t, store.Get(b.ID.Hex()).Deleted())

	// exactly one write: C's tombstone; A and B content is unchanged
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
	assert.Equal(t, 1, mem.UpdatesByID[c.ID.Hex()])
}

func TestSyncDocumentSyncsContent(t *testing.T) {
	sync, store, mem := newFixture()

	now := time.Now()
	formID := primitive.NewObjectID()
	a := models.Question{ID: primitive.NewObjectID(), FormID: formID, Type: models.ShortAnswer, Title: "old", Order: 1, CreatedAt: &now}
	store.Load(formID, []models.Question{a})

	doc := models.NewDoc(textQuestionBlock(a.ID.Hex(), "renamed"))
	sync.SyncDocument(context.Background(), doc)
	store.Flush()

	assert.Equal(t, "renamed", store.Get(a.ID.Hex()).Title)
	assert.Equal(t, 1, mem.UpdateQuestionCalls)
}

func TestSyncDocumentNilDoc(t *testing.T) {
	sync, _, mem := newFixture()
	sync.SyncDocument(context.Background(), nil)
	assert.Equal(t, 0, mem.UpdateQuestionCalls)
}
