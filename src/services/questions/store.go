package questions

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/records"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultCreateSettle is how long an update to a never-persisted question is
// held back so it does not race the create call that is still in flight.
// Best-effort mitigation only, not a hard ordering guarantee.
const defaultCreateSettle = 500 * time.Millisecond

// Store is the authoritative in-memory cache of question records for the
// form currently being edited. All create/update/soft-delete traffic to the
// record store goes through it. One Store per editing session; it is handed
// to the components that need it rather than living as a package global.
type Store struct {
	mu sync.Mutex

	records  records.Store
	notifier records.Notifier

	formID primitive.ObjectID
	byID   map[string]*models.Question // includes soft-delete tombstones
	root   []*models.Question          // live root questions, order 1..N

	createSettle time.Duration
	pending      sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithCreateSettle overrides the delayed-write interval (tests use a tiny one).
func WithCreateSettle(d time.Duration) Option {
	return func(s *Store) { s.createSettle = d }
}

func NewStore(rs records.Store, notifier records.Notifier, opts ...Option) *Store {
	s := &Store{
		records:      rs,
		notifier:     notifier,
		byID:         map[string]*models.Question{},
		createSettle: defaultCreateSettle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the whole cache with the given records. Root questions (no
// parent, not deleted) are kept in input order of their stored `order` value
// and renumbered to a contiguous 1..N, discarding any gaps.
func (s *Store) Load(formID primitive.ObjectID, qs []models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.formID = formID
	s.byID = make(map[string]*models.Question, len(qs))
	s.root = nil

	for i := range qs {
		q := qs[i]
		s.byID[q.ID.Hex()] = &q
		if q.Root() && !q.Deleted() {
			s.root = append(s.root, s.byID[q.ID.Hex()])
		}
	}

	sort.SliceStable(s.root, func(i, j int) bool {
		return s.root[i].Order < s.root[j].Order
	})
	for i, q := range s.root {
		q.Order = i + 1
	}
}

// Reset drops all cached state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formID = primitive.NilObjectID
	s.byID = map[string]*models.Question{}
	s.root = nil
}

// Get returns the cached question for id, tombstones included, or nil.
func (s *Store) Get(id string) *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

// Root returns the live root questions in order.
func (s *Store) Root() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Question, len(s.root))
	for i, q := range s.root {
		out[i] = *q
	}
	return out
}

// LiveIDs returns the ids of all cached non-deleted root questions.
func (s *Store) LiveIDs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]bool, len(s.root))
	for _, q := range s.root {
		ids[q.ID.Hex()] = true
	}
	return ids
}

// Add persists a new question and inserts it into the cache. Missing fields
// get defaults: type short-answer, required true, order after the current
// last root question. A store rejection propagates to the caller; nothing is
// cached in that case.
func (s *Store) Add(ctx context.Context, seed models.Question) (*models.Question, error) {
	s.mu.Lock()
	seed.FormID = s.formID
	if seed.Type == "" {
		seed.Type = models.ShortAnswer
	}
	seed.Required = true
	seed.Order = s.maxRootOrderLocked() + 1
	s.mu.Unlock()

	created, err := s.records.CreateQuestion(ctx, &seed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q := *created
	s.byID[q.ID.Hex()] = &q
	if q.Root() {
		s.root = append(s.root, &q)
	}
	return &q, nil
}

func (s *Store) maxRootOrderLocked() int {
	max := 0
	for _, q := range s.root {
		if q.Order > max {
			max = q.Order
		}
	}
	return max
}

// Update applies patch to the cached question and pushes it to the record
// store. When nothing in the patch differs from the cache the call is a
// no-op. The local cache is updated before the remote write; on remote
// failure the optimistic local value stays (the user is notified instead of
// the edit being rolled back).
func (s *Store) Update(ctx context.Context, q *models.Question, patch models.QuestionPatch) {
	s.mu.Lock()
	cached, ok := s.byID[q.ID.Hex()]
	if !ok {
		s.mu.Unlock()
		return
	}
	if patch.Empty(cached) {
		s.mu.Unlock()
		return
	}

	patch.Apply(cached)
	neverPersisted := cached.CreatedAt == nil
	id := cached.ID
	s.mu.Unlock()

	if neverPersisted {
		// the create call for this record may still be in flight; give it
		// a moment before writing against its id
		s.pending.Add(1)
		time.AfterFunc(s.createSettle, func() {
			defer s.pending.Done()
			s.pushUpdate(context.Background(), id, patch)
		})
		return
	}

	s.pushUpdate(ctx, id, patch)
}

func (s *Store) pushUpdate(ctx context.Context, id primitive.ObjectID, patch models.QuestionPatch) {
	if err := s.records.UpdateQuestion(ctx, id, patch); err != nil {
		log.Printf("[questions] update %s failed: %v", id.Hex(), err)
		s.notifier.Error("Failed to save question changes")
	}
}

// Delete soft-deletes the question: tombstoned in the id index, removed from
// the root sequence, and marked deleted remotely. Later synchronizer passes
// see the tombstone and do not recreate it.
func (s *Store) Delete(ctx context.Context, q *models.Question) {
	s.mu.Lock()
	cached, ok := s.byID[q.ID.Hex()]
	if !ok || cached.Deleted() {
		s.mu.Unlock()
		return
	}

	now := time.Now()
	cached.DeletedAt = &now
	for i, rq := range s.root {
		if rq.ID == cached.ID {
			s.root = append(s.root[:i], s.root[i+1:]...)
			break
		}
	}
	id := cached.ID
	s.mu.Unlock()

	if err := s.records.UpdateQuestion(ctx, id, models.QuestionPatch{DeletedAt: &now}); err != nil {
		log.Printf("[questions] delete %s failed: %v", id.Hex(), err)
		s.notifier.Error("Failed to delete question")
	}
}

// Flush waits for delayed writes to finish. Editor teardown and tests call it.
func (s *Store) Flush() {
	s.pending.Wait()
}
