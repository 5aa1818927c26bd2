package docsync

import (
	"context"
	"strings"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/docmodel"
	"Backend-Rhea/src/services/questions"
)

// Synchronizer reconciles question-bearing document blocks against the
// question cache: it derives the persisted fields (title, options) from
// block content and pushes only real diffs, and it soft-deletes questions
// whose blocks left the document.
type Synchronizer struct {
	store *questions.Store
}

func New(store *questions.Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// SaveQuestion syncs one block's derived fields into its backing question.
// A block without an id has nothing to sync yet; an id the cache does not
// know is a benign transient (e.g. cache not loaded) and is ignored.
func (s *Synchronizer) SaveQuestion(ctx context.Context, block *models.Block) {
	id := block.QuestionID()
	if id == "" {
		return
	}
	q := s.store.Get(id)
	if q == nil {
		return
	}

	switch q.Type {
	case models.ShortAnswer, models.LongAnswer, models.SignatureQuestion:
		title := docmodel.Text(block)
		if title != q.Title {
			s.store.Update(ctx, q, models.QuestionPatch{Title: &title})
		}
	case models.Checkboxes, models.RadioButtons:
		options := OptionLabels(block)
		if options != q.Options {
			s.store.Update(ctx, q, models.QuestionPatch{Options: &options})
		}
	}
	// other types: content is driven by explicit UI interactions, nothing derived
}

// OptionLabels flattens each immediate child block, trims it, and joins the
// labels with newline, which is the stored `options` encoding.
func OptionLabels(block *models.Block) string {
	labels := make([]string, 0, len(block.Content))
	for i := range block.Content {
		labels = append(labels, strings.TrimSpace(docmodel.TextContent(&block.Content[i], "")))
	}
	return strings.Join(labels, "\n")
}

// ChoiceOptionBlocks rebuilds choice-option child blocks from a stored
// options string, the inverse of OptionLabels.
func ChoiceOptionBlocks(options string) []models.Block {
	if options == "" {
		return nil
	}
	labels := strings.Split(options, "\n")
	blocks := make([]models.Block, len(labels))
	for i, label := range labels {
		blocks[i] = models.Block{
			Type:  models.BlockChoiceOption,
			Attrs: &models.BlockAttrs{Index: i},
			Text:  label,
		}
	}
	return blocks
}

// SyncDocument is the full-document pass run before preview/send. Deletion
// detection runs to completion before content sync: the two touch disjoint
// questions, but a fixed order keeps a remove-and-readd within one pass from
// ending up both synced and deleted.
func (s *Synchronizer) SyncDocument(ctx context.Context, doc *models.Block) {
	if doc == nil {
		return
	}

	inDoc := map[string]bool{}
	var blocks []*models.Block
	for i := range doc.Content {
		b := &doc.Content[i]
		id := b.QuestionID()
		if id == "" {
			continue
		}
		if q := s.store.Get(id); q != nil && !q.Deleted() {
			inDoc[id] = true
			blocks = append(blocks, b)
		}
	}

	for id := range s.store.LiveIDs() {
		if !inDoc[id] {
			if q := s.store.Get(id); q != nil {
				s.store.Delete(ctx, q)
			}
		}
	}

	for _, b := range blocks {
		s.SaveQuestion(ctx, b)
	}
}
