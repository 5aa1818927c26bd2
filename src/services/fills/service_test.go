package fills

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

func question(typ models.QuestionType, required bool, order int) models.Question {
	return models.Question{
		ID:       primitive.NewObjectID(),
		Type:     typ,
		Title:    "q",
		Required: required,
		Order:    order,
	}
}

func newFillFixture(qs ...models.Question) (*Session, *records.MemStore) {
	mem := records.NewMemStore()
	fill := &models.FormFill{
		ID:     primitive.NewObjectID(),
		FormID: primitive.NewObjectID(),
		Token:  "tok",
	}
	return NewSession(mem, fill, qs, nil), mem
}

func TestEditAnswerUpserts(t *testing.T) {
	q := question(models.ShortAnswer, true, 1)
	s, mem := newFillFixture(q)
	ctx := context.Background()

	require.NoError(t, s.EditAnswer(ctx, q.ID.Hex(), "hello"))
	require.NoError(t, s.EditAnswer(ctx, q.ID.Hex(), "hello again"))

	assert.Equal(t, 2, mem.AnswerUpserts)
	assert.Len(t, mem.Answers, 1, "second edit overwrites, no second answer record")
}

func TestEditAnswerUnknownQuestion(t *testing.T) {
	s, mem := newFillFixture(question(models.ShortAnswer, true, 1))
	err := s.EditAnswer(context.Background(), primitive.NewObjectID().Hex(), "x")
	assert.Error(t, err)
	assert.Equal(t, 0, mem.AnswerUpserts)
}

func TestEditAnswerSerializesStructuredValues(t *testing.T) {
	q := question(models.Checkboxes, false, 1)
	s, mem := newFillFixture(q)

	require.NoError(t, s.EditAnswer(context.Background(), q.ID.Hex(), []string{"Red", "Blue"}))

	key := s.Fill().ID.Hex() + ":" + q.ID.Hex()
	require.Contains(t, mem.Answers, key)
	assert.Equal(t, `["Red","Blue"]`, mem.Answers[key].Value)
}

func TestCompletionPctPersistedOnlyOnChange(t *testing.T) {
	q1 := question(models.ShortAnswer, true, 1)
	q2 := question(models.ShortAnswer, true, 2)
	q3 := question(models.ShortAnswer, false, 3)
	q4 := question(models.LongAnswer, false, 4)
	s, mem := newFillFixture(q1, q2, q3, q4)
	ctx := context.Background()

	require.NoError(t, s.EditAnswer(ctx, q1.ID.Hex(), "a"))
	assert.Equal(t, 25, s.CompletionPct())
	assert.Equal(t, 1, mem.FillUpdateCalls)

	require.NoError(t, s.EditAnswer(ctx, q2.ID.Hex(), "b"))
	assert.Equal(t, 50, s.CompletionPct())
	assert.Equal(t, 2, mem.FillUpdateCalls)

	// re-answering the same question leaves the pct at 50: no fill write
	require.NoError(t, s.EditAnswer(ctx, q2.ID.Hex(), "b edited"))
	assert.Equal(t, 50, s.CompletionPct())
	assert.Equal(t, 2, mem.FillUpdateCalls)

	require.NoError(t, s.EditAnswer(ctx, q3.ID.Hex(), "c"))
	assert.Equal(t, 75, s.CompletionPct())
	assert.Equal(t, 3, mem.FillUpdateCalls)
}

func TestCompletionPctBlankAnswerNotCounted(t *testing.T) {
	q1 := question(models.ShortAnswer, true, 1)
	q2 := question(models.ShortAnswer, true, 2)
	s, _ := newFillFixture(q1, q2)

	require.NoError(t, s.EditAnswer(context.Background(), q1.ID.Hex(), "   "))
	assert.Equal(t, 0, s.CompletionPct())
}

func TestCompletionPctNoQuestions(t *testing.T) {
	s, _ := newFillFixture()
	assert.Equal(t, 0, s.CompletionPct())
}

func TestValidateFormRequired(t *testing.T) {
	req := question(models.ShortAnswer, true, 1)
	opt := question(models.ShortAnswer, false, 2)
	s, _ := newFillFixture(req, opt)

	ok, errs := s.ValidateForm()
	assert.False(t, ok)
	assert.Equal(t, map[string]string{req.ID.Hex(): "Required"}, errs)

	require.NoError(t, s.EditAnswer(context.Background(), req.ID.Hex(), "answered"))
	ok, errs = s.ValidateForm()
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidateFormSignature(t *testing.T) {
	sig := question(models.SignatureQuestion, true, 1)

	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"Empty", "", false},
		{"BareString", "Jordan", false},
		{"ObjectWithoutName", `{"ua":"firefox"}`, false},
		{"ObjectWithBlankName", `{"name":"  "}`, false},
		{"ObjectWithName", `{"name":"Jordan","signedAt":"2026-09-01"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newFillFixture(sig)
			if tc.value != "" {
				require.NoError(t, s.EditAnswer(context.Background(), sig.ID.Hex(), tc.value))
			}
			ok, _ := s.ValidateForm()
			assert.Equal(t, tc.valid, ok)
		})
	}
}

func TestSubmit(t *testing.T) {
	q := question(models.ShortAnswer, true, 1)
	s, _ := newFillFixture(q)
	ctx := context.Background()

	// invalid form: errors map, no error, nothing persisted
	errs, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
	assert.Nil(t, s.Fill().SubmittedAt)

	require.NoError(t, s.EditAnswer(ctx, q.ID.Hex(), "done"))
	errs, err = s.Submit(ctx)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.NotNil(t, s.Fill().SubmittedAt)

	// double submit is rejected
	_, err = s.Submit(ctx)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitStoreFailure(t *testing.T) {
	q := question(models.ShortAnswer, true, 1)
	s, mem := newFillFixture(q)
	ctx := context.Background()

	require.NoError(t, s.EditAnswer(ctx, q.ID.Hex(), "done"))
	mem.FillErr = errors.New("store down")

	_, err := s.Submit(ctx)
	assert.Error(t, err)
	assert.Nil(t, s.Fill().SubmittedAt, "failed submit must not mark the fill submitted")

	mem.FillErr = nil
	_, err = s.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, s.Fill().SubmittedAt)
	assert.WithinDuration(t, time.Now(), *s.Fill().SubmittedAt, time.Minute)
}
