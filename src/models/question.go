package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType enumerates the fillable field kinds.
type QuestionType string

const (
	ShortAnswer       QuestionType = "short-answer"
	LongAnswer        QuestionType = "long-answer"
	RadioButtons      QuestionType = "radio-buttons"
	Checkboxes        QuestionType = "checkboxes"
	Upload            QuestionType = "upload"
	TextQuestion      QuestionType = "text"
	SignatureQuestion QuestionType = "signature"
)

// Question is one persisted fillable field of a form. A document block holds
// only the id string; the question data itself lives in the store.
type Question struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	FormID   primitive.ObjectID  `bson:"formId" json:"formId"`
	ParentID *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Type     QuestionType        `bson:"type" json:"type"`
	Title    string              `bson:"title" json:"title"`
	Options  string              `bson:"options,omitempty" json:"options,omitempty"`
	Required bool                `bson:"required" json:"required"`
	Order    int                 `bson:"order" json:"order"`
	Meta     map[string]string   `bson:"meta,omitempty" json:"meta,omitempty"`

	CreatedAt *time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// Deleted reports whether the question is a soft-delete tombstone.
func (q *Question) Deleted() bool {
	return q.DeletedAt != nil
}

// Root reports whether the question belongs to a top-level document block.
func (q *Question) Root() bool {
	return q.ParentID == nil
}

// HasOptions reports whether the question type derives its options from
// choice-option child blocks.
func (q *Question) HasOptions() bool {
	return q.Type == RadioButtons || q.Type == Checkboxes
}

// QuestionPatch is a partial update; nil fields are left untouched.
type QuestionPatch struct {
	Title     *string           `bson:"title,omitempty" json:"title,omitempty"`
	Options   *string           `bson:"options,omitempty" json:"options,omitempty"`
	Required  *bool             `bson:"required,omitempty" json:"required,omitempty"`
	Order     *int              `bson:"order,omitempty" json:"order,omitempty"`
	Meta      map[string]string `bson:"meta,omitempty" json:"meta,omitempty"`
	DeletedAt *time.Time        `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// Empty reports whether the patch would change nothing on q.
func (p QuestionPatch) Empty(q *Question) bool {
	if p.Title != nil && *p.Title != q.Title {
		return false
	}
	if p.Options != nil && *p.Options != q.Options {
		return false
	}
	if p.Required != nil && *p.Required != q.Required {
		return false
	}
	if p.Order != nil && *p.Order != q.Order {
		return false
	}
	if p.DeletedAt != nil && q.DeletedAt == nil {
		return false
	}
	for k, v := range p.Meta {
		if q.Meta[k] != v {
			return false
		}
	}
	return true
}

// Apply writes the patch onto q in place.
func (p QuestionPatch) Apply(q *Question) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Options != nil {
		q.Options = *p.Options
	}
	if p.Required != nil {
		q.Required = *p.Required
	}
	if p.Order != nil {
		q.Order = *p.Order
	}
	if p.DeletedAt != nil {
		q.DeletedAt = p.DeletedAt
	}
	if p.Meta != nil {
		if q.Meta == nil {
			q.Meta = map[string]string{}
		}
		for k, v := range p.Meta {
			q.Meta[k] = v
		}
	}
}

// StrPtr is a convenience for building patches.
func StrPtr(s string) *string { return &s }

// BoolPtr is a convenience for building patches.
func BoolPtr(b bool) *bool { return &b }

// IntPtr is a convenience for building patches.
func IntPtr(i int) *int { return &i }
