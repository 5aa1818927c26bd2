package editor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type docHolder struct {
	doc atomic.Pointer[models.Block]
}

func newDocHolder() *docHolder {
	h := &docHolder{}
	h.doc.Store(models.NewDoc())
	return h
}

func (h *docHolder) snapshot() *models.Block { return h.doc.Load() }

func (h *docHolder) edit(text string) {
	h.doc.Store(models.NewDoc(models.Block{
		Type:    models.BlockParagraph,
		Content: []models.Block{{Type: models.BlockText, Text: text}},
	}))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestAutosaveDebounceCoalesces(t *testing.T) {
	mem := records.NewMemStore()
	holder := newDocHolder()
	var saves atomic.Int32
	a := NewAutosaver(mem, &records.CaptureNotifier{}, primitive.NewObjectID(), holder.snapshot,
		WithInterval(30*time.Millisecond),
		WithOnSaved(func([]byte) { saves.Add(1) }))

	// a burst of edits inside one window produces exactly one save
	for i := 0; i < 10; i++ {
		holder.edit("edit")
		a.MarkDirty()
	}

	waitFor(t, func() bool { return saves.Load() == 1 })
	assert.Equal(t, 1, mem.SaveContentsCalls)
	assert.False(t, a.Dirty())
}

func TestAutosaveIgnoreNewStyle(t *testing.T) {
	mem := records.NewMemStore()
	holder := newDocHolder()
	start := time.Now()
	var firstSave atomic.Int64
	a := NewAutosaver(mem, &records.CaptureNotifier{}, primitive.NewObjectID(), holder.snapshot,
		WithInterval(50*time.Millisecond),
		WithOnSaved(func([]byte) {
			firstSave.CompareAndSwap(0, time.Since(start).Milliseconds())
		}))

	holder.edit("first")
	a.MarkDirty()

	// keep editing past the window; the armed timer must not be pushed back
	for i := 0; i < 5; i++ {
		time.Sleep(15 * time.Millisecond)
		holder.edit("more")
		a.MarkDirty()
	}

	waitFor(t, func() bool { return firstSave.Load() != 0 })
	assert.Less(t, firstSave.Load(), int64(100), "save must fire near the original deadline")
}

func TestAutosaveSkipsIdenticalContent(t *testing.T) {
	mem := records.NewMemStore()
	holder := newDocHolder()
	a := NewAutosaver(mem, &records.CaptureNotifier{}, primitive.NewObjectID(), holder.snapshot,
		WithInterval(10*time.Millisecond))

	holder.edit("same")
	a.MarkDirty()
	require.NoError(t, a.SaveNow(context.Background()))
	assert.Equal(t, 1, mem.SaveContentsCalls)

	// dirty again but content is byte-identical: no second write
	a.MarkDirty()
	require.NoError(t, a.SaveNow(context.Background()))
	assert.Equal(t, 1, mem.SaveContentsCalls)
	assert.False(t, a.Dirty())
}

func TestAutosaveSaveNowWhenClean(t *testing.T) {
	mem := records.NewMemStore()
	holder := newDocHolder()
	a := NewAutosaver(mem, &records.CaptureNotifier{}, primitive.NewObjectID(), holder.snapshot)

	require.NoError(t, a.SaveNow(context.Background()))
	assert.Equal(t, 0, mem.SaveContentsCalls)
}

func TestAutosaveFailureRestoresDirty(t *testing.T) {
	mem := records.NewMemStore()
	notifier := &records.CaptureNotifier{}
	holder := newDocHolder()
	a := NewAutosaver(mem, notifier, primitive.NewObjectID(), holder.snapshot,
		WithInterval(10*time.Millisecond))
	mem.SaveErr = errors.New("mongo down")

	holder.edit("unlucky")
	a.MarkDirty()
	err := a.SaveNow(context.Background())
	assert.Error(t, err)
	assert.True(t, a.Dirty(), "failed save leaves changes pending for retry")
	assert.NotEmpty(t, notifier.Errors)

	// store recovers, retry succeeds
	mem.SaveErr = nil
	require.NoError(t, a.SaveNow(context.Background()))
	assert.False(t, a.Dirty())
}

func TestAutosaveCloseReportsUnsaved(t *testing.T) {
	mem := records.NewMemStore()
	holder := newDocHolder()
	var saves atomic.Int32
	a := NewAutosaver(mem, &records.CaptureNotifier{}, primitive.NewObjectID(), holder.snapshot,
		WithInterval(time.Hour),
		WithOnSaved(func([]byte) { saves.Add(1) }))

	holder.edit("pending")
	a.MarkDirty()
	assert.True(t, a.Close())

	// the best-effort final flush still lands
	waitFor(t, func() bool { return saves.Load() == 1 })

	// closed scheduler ignores further edits
	a.MarkDirty()
	assert.False(t, a.Dirty())
}

func TestAutosaveCloseCleanIsQuiet(t *testing.T) {
	mem := records.NewMemStore()
	holder := newDocHolder()
	a := NewAutosaver(mem, &records.CaptureNotifier{}, primitive.NewObjectID(), holder.snapshot,
		WithInterval(time.Hour))

	assert.False(t, a.Close())
	assert.Equal(t, 0, mem.SaveContentsCalls)
}
