package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/records"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultInterval is the autosave debounce window.
const defaultInterval = 5 * time.Second

// Autosaver persists the full serialized document at a bounded rate while
// editing is in progress. Debounce is ignore-new style: once a save is
// scheduled, further edits do not reset the timer, they only refresh what the
// save will capture. At most one remote write is in flight at a time.
type Autosaver struct {
	mu     sync.Mutex // guards the state below
	saveMu sync.Mutex // serializes remote writes (single flight)

	records  records.Store
	notifier records.Notifier
	formID   primitive.ObjectID
	snapshot func() *models.Block
	onSaved  func(content []byte)

	interval  time.Duration
	timer     *time.Timer
	armed     bool
	dirty     bool
	closed    bool
	lastSaved []byte
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

func WithInterval(d time.Duration) AutosaveOption {
	return func(a *Autosaver) { a.interval = d }
}

// WithOnSaved registers a completion callback invoked with the saved bytes.
func WithOnSaved(fn func(content []byte)) AutosaveOption {
	return func(a *Autosaver) { a.onSaved = fn }
}

// NewAutosaver builds a scheduler for one form. snapshot must return the
// current document tree when called.
func NewAutosaver(rs records.Store, notifier records.Notifier, formID primitive.ObjectID, snapshot func() *models.Block, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		records:  rs,
		notifier: notifier,
		formID:   formID,
		snapshot: snapshot,
		interval: defaultInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MarkDirty records a local document mutation and arms the debounce timer if
// none is pending. Remote-originated changes must not be reported here.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.dirty = true
	if !a.armed {
		a.armed = true
		a.timer = time.AfterFunc(a.interval, a.fire)
	}
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	a.armed = false
	a.mu.Unlock()

	if err := a.save(context.Background()); err != nil {
		log.Println("[autosave] save failed:", err)
	}
}

// save serializes and persists the current document. Skips the write when
// the serialized form matches the last saved snapshot. dirty is cleared at
// capture time so edits landing during the write trigger another cycle.
func (a *Autosaver) save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}

	doc := a.snapshot()
	data, err := json.Marshal(doc)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	if bytes.Equal(data, a.lastSaved) {
		a.dirty = false
		a.mu.Unlock()
		return nil
	}
	a.dirty = false
	a.mu.Unlock()

	if err := a.records.SaveFormContents(ctx, a.formID, doc); err != nil {
		a.mu.Lock()
		a.dirty = true // next cycle retries with the latest content
		a.mu.Unlock()
		a.notifier.Error("Failed to save document")
		return err
	}

	a.mu.Lock()
	a.lastSaved = data
	onSaved := a.onSaved
	a.mu.Unlock()

	if onSaved != nil {
		onSaved(data)
	}
	return nil
}

// SaveNow executes any pending save immediately and waits for it. Used
// before navigating to preview/send.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	a.mu.Lock()
	if a.armed {
		a.timer.Stop()
		a.armed = false
	}
	a.mu.Unlock()

	return a.save(ctx)
}

// Close tears the scheduler down. A pending save is fired best-effort (not
// awaited); the return value reports whether unsaved changes existed at
// teardown so the caller can warn the user.
func (a *Autosaver) Close() (unsaved bool) {
	a.mu.Lock()
	a.closed = true
	if a.armed {
		a.timer.Stop()
		a.armed = false
	}
	unsaved = a.dirty
	a.mu.Unlock()

	if unsaved {
		go func() {
			if err := a.save(context.Background()); err != nil {
				log.Println("[autosave] final flush failed:", err)
			}
		}()
	}
	return unsaved
}

// Dirty reports whether unsaved local changes exist.
func (a *Autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}
