package editor

import (
	"context"
	"log"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/docsync"
	"Backend-Rhea/src/services/questions"

	"github.com/google/uuid"
)

// EventKind names the editing-surface events the session consumes.
type EventKind string

const (
	EventDocChanged  EventKind = "doc-changed"
	EventFocusGained EventKind = "focus-gained"
	EventFocusLost   EventKind = "focus-lost"
)

// Event is one observation from the rich-text editing surface. The surface
// emits doc-changed on any mutation (Remote marks mutations that came in
// from elsewhere and must not re-trigger autosave) and focus events when the
// cursor enters or leaves a question-bearing block.
type Event struct {
	Kind   EventKind
	Block  *models.Block
	Remote bool
}

// Session coordinates one user editing one form document: it lazily creates
// backing question records when a block first loses focus, keeps block
// content synced into the question cache, and feeds the autosaver.
//
// Per block the lifecycle is: unbacked -> backed+pending-sync (on blur) ->
// backed+synced. Deletion is never triggered from the block itself; only the
// full-document pass detects disappeared blocks.
type Session struct {
	ID string

	store     *questions.Store
	sync      *docsync.Synchronizer
	autosaver *Autosaver
	doc       *models.Block
}

func NewSession(store *questions.Store, sync *docsync.Synchronizer, autosaver *Autosaver, doc *models.Block) *Session {
	return &Session{
		ID:        uuid.NewString(),
		store:     store,
		sync:      sync,
		autosaver: autosaver,
		doc:       doc,
	}
}

// HandleEvent dispatches one surface event.
func (s *Session) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventDocChanged:
		if !ev.Remote {
			s.autosaver.MarkDirty()
		}
	case EventFocusLost:
		if ev.Block != nil {
			s.blur(ctx, ev.Block)
		}
	}
}

// blur is the editing-session boundary for one block: ensure a backing
// record exists, then sync content. The create-then-sync order is strict so
// the sync always observes the freshly attached id.
func (s *Session) blur(ctx context.Context, block *models.Block) {
	if !block.IsQuestionBlock() {
		return
	}

	if block.QuestionID() == "" {
		q, err := s.store.Add(ctx, models.Question{Type: block.DefaultQuestionType()})
		if err != nil {
			// block stays unbacked; the next blur retries creation
			log.Printf("[editor %s] create question failed: %v", s.ID, err)
			return
		}
		block.SetQuestionID(q.ID.Hex())
	}

	s.sync.SaveQuestion(ctx, block)
}

// Run consumes surface events until the stream closes or ctx is done, then
// tears the session down.
func (s *Session) Run(ctx context.Context, events <-chan Event) {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.HandleEvent(ctx, ev)
		}
	}
}

// Preview runs the full-document sync and flushes any pending autosave, the
// required sequence before navigating to preview or send.
func (s *Session) Preview(ctx context.Context) error {
	s.sync.SyncDocument(ctx, s.doc)
	s.store.Flush()
	return s.autosaver.SaveNow(ctx)
}

// Close flushes delayed question writes and best-effort fires any pending
// document save. Returns whether unsaved changes existed, for the
// "you have unsaved changes" warning.
func (s *Session) Close() (unsaved bool) {
	s.store.Flush()
	return s.autosaver.Close()
}
