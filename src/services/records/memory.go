package records

import (
	"context"
	"sync"
	"time"

	"Backend-Rhea/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory Store used by tests. It counts calls per
// operation so tests can assert exact write behavior, and can be primed to
// fail any operation.
type MemStore struct {
	mu sync.Mutex

	Questions map[string]*models.Question
	Answers   map[string]*models.Answer // key fillHex+":"+questionHex
	Docs      map[string]*models.Block
	Fills     map[string]models.FormFillPatch

	CreateQuestionCalls int
	UpdateQuestionCalls int
	SaveContentsCalls   int
	AnswerUpserts       int
	FillUpdateCalls     int
	UpdatesByID         map[string]int

	CreateErr error
	UpdateErr error
	SaveErr   error
	AnswerErr error
	FillErr   error
}

func NewMemStore() *MemStore {
	return &MemStore{
		Questions:   map[string]*models.Question{},
		Answers:     map[string]*models.Answer{},
		Docs:        map[string]*models.Block{},
		Fills:       map[string]models.FormFillPatch{},
		UpdatesByID: map[string]int{},
	}
}

func (s *MemStore) CreateQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CreateQuestionCalls++
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	now := time.Now()
	q.CreatedAt = &now

	stored := *q
	s.Questions[q.ID.Hex()] = &stored
	return q, nil
}

func (s *MemStore) UpdateQuestion(ctx context.Context, id primitive.ObjectID, patch models.QuestionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.UpdateQuestionCalls++
	s.UpdatesByID[id.Hex()]++
	if s.UpdateErr != nil {
		return s.UpdateErr
	}

	if q, ok := s.Questions[id.Hex()]; ok {
		patch.Apply(q)
	}
	return nil
}

func (s *MemStore) SaveFormContents(ctx context.Context, formID primitive.ObjectID, doc *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SaveContentsCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Docs[formID.Hex()] = doc
	return nil
}

func (s *MemStore) CreateOrUpdateAnswer(ctx context.Context, fillID, questionID primitive.ObjectID, value string) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.AnswerUpserts++
	if s.AnswerErr != nil {
		return nil, s.AnswerErr
	}

	key := fillID.Hex() + ":" + questionID.Hex()
	now := time.Now()
	if a, ok := s.Answers[key]; ok {
		a.Value = value
		a.UpdatedAt = now
		return a, nil
	}

	a := &models.Answer{
		ID:         primitive.NewObjectID(),
		FillID:     fillID,
		QuestionID: questionID,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.Answers[key] = a
	return a, nil
}

func (s *MemStore) UpdateFormFill(ctx context.Context, fillID primitive.ObjectID, patch models.FormFillPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FillUpdateCalls++
	if s.FillErr != nil {
		return s.FillErr
	}
	s.Fills[fillID.Hex()] = patch
	return nil
}

// CaptureNotifier records messages for assertions.
type CaptureNotifier struct {
	mu        sync.Mutex
	Errors    []string
	Successes []string
}

func (n *CaptureNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, message)
}

func (n *CaptureNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, message)
}
