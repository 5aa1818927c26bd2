package fills

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	DB "Backend-Rhea/src/database"
	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/records"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrFillNotFound = errors.New("fill not found")
var ErrAlreadySubmitted = errors.New("fill already submitted")

// Session is one respondent's fill of one form: the question set, the
// per-question answers, and the running completion percentage.
type Session struct {
	mu sync.Mutex

	records   records.Store
	fill      *models.FormFill
	questions []models.Question
	answers   map[string]*models.Answer // by question id hex
}

func NewSession(rs records.Store, fill *models.FormFill, questions []models.Question, answers []models.Answer) *Session {
	s := &Session{
		records:   rs,
		fill:      fill,
		questions: questions,
		answers:   make(map[string]*models.Answer, len(answers)),
	}
	for i := range answers {
		a := answers[i]
		s.answers[a.QuestionID.Hex()] = &a
	}
	return s
}

// LoadSession builds a Session from the database by share token.
func LoadSession(ctx context.Context, token string) (*Session, error) {
	var fill models.FormFill
	err := DB.FillCollection.FindOne(ctx, bson.M{"token": token}).Decode(&fill)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFillNotFound
		}
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := DB.QuestionCollection.Find(ctx,
		bson.M{"formId": fill.FormID, "deletedAt": bson.M{"$exists": false}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var qs []models.Question
	if err = cursor.All(ctx, &qs); err != nil {
		return nil, err
	}

	ansCursor, err := DB.AnswerCollection.Find(ctx, bson.M{"fillId": fill.ID})
	if err != nil {
		return nil, err
	}
	defer ansCursor.Close(ctx)

	var answers []models.Answer
	if err = ansCursor.All(ctx, &answers); err != nil {
		return nil, err
	}

	return NewSession(records.NewMongoStore(), &fill, qs, answers), nil
}

// Fill returns the underlying FormFill record.
func (s *Session) Fill() models.FormFill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.fill
}

// Questions returns the live question set in order.
func (s *Session) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// EditAnswer upserts the respondent's answer to one question and refreshes
// the fill's completion percentage, persisting the percentage only when it
// actually changed. Non-string values are stored JSON-encoded.
func (s *Session) EditAnswer(ctx context.Context, questionID string, value interface{}) error {
	s.mu.Lock()
	q := s.questionLocked(questionID)
	if q == nil {
		s.mu.Unlock()
		return errors.New("unknown question: " + questionID)
	}
	fillID := s.fill.ID
	s.mu.Unlock()

	raw, err := serializeValue(value)
	if err != nil {
		return err
	}

	answer, err := s.records.CreateOrUpdateAnswer(ctx, fillID, q.ID, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.answers[q.ID.Hex()] = answer
	pct := s.completionPctLocked()
	changed := pct != s.fill.Completed
	s.mu.Unlock()

	if changed {
		if err := s.records.UpdateFormFill(ctx, fillID, models.FormFillPatch{Completed: &pct}); err != nil {
			return err
		}
		s.mu.Lock()
		s.fill.Completed = pct
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) questionLocked(id string) *models.Question {
	for i := range s.questions {
		if s.questions[i].ID.Hex() == id {
			return &s.questions[i]
		}
	}
	return nil
}

func serializeValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// CompletionPct computes round(100 * answered / total) over the live
// question set.
func (s *Session) CompletionPct() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completionPctLocked()
}

func (s *Session) completionPctLocked() int {
	if len(s.questions) == 0 {
		return 0
	}
	answered := 0
	for i := range s.questions {
		if a := s.answers[s.questions[i].ID.Hex()]; a != nil && strings.TrimSpace(a.Value) != "" {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(len(s.questions))))
}

// ValidateForm checks every required question synchronously before submit.
// Signature answers must parse to an object with a non-empty name. Returns
// overall validity plus a per-question error map.
func (s *Session) ValidateForm() (bool, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := map[string]string{}
	for i := range s.questions {
		q := &s.questions[i]
		if !q.Required {
			continue
		}

		raw := ""
		if a := s.answers[q.ID.Hex()]; a != nil {
			raw = a.Value
		}

		valid := false
		if q.Type == models.SignatureQuestion {
			valid = models.ValidSignature(raw)
		} else {
			valid = strings.TrimSpace(raw) != ""
		}
		if !valid {
			errs[q.ID.Hex()] = "Required"
		}
	}
	return len(errs) == 0, errs
}

// Submit validates and, when valid, stamps the fill submitted. Validation
// errors come back in the map with a nil error.
func (s *Session) Submit(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	if s.fill.SubmittedAt != nil {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	s.mu.Unlock()

	ok, errs := s.ValidateForm()
	if !ok {
		return errs, nil
	}

	now := time.Now()
	s.mu.Lock()
	fillID := s.fill.ID
	s.mu.Unlock()

	if err := s.records.UpdateFormFill(ctx, fillID, models.FormFillPatch{SubmittedAt: &now}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.fill.SubmittedAt = &now
	s.mu.Unlock()
	return nil, nil
}
