package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormFill is one respondent's session against a form. Respondents reach it
// through an opaque share token, not an authenticated account.
type FormFill struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FormID    primitive.ObjectID `bson:"formId" json:"formId"`
	Token     string             `bson:"token" json:"token"`
	Email     string             `bson:"email" json:"email"`
	Completed int                `bson:"completed" json:"completed"`

	SubmittedAt *time.Time `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Answer binds a FormFill and a Question to a value. Structured values are
// stored JSON-encoded; there is at most one answer per (fill, question) pair.
type Answer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FillID     primitive.ObjectID `bson:"fillId" json:"fillId"`
	QuestionID primitive.ObjectID `bson:"questionId" json:"questionId"`
	Value      string             `bson:"value" json:"value"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FormFillPatch is a partial FormFill update; nil fields are left untouched.
type FormFillPatch struct {
	Completed   *int       `bson:"completed,omitempty" json:"completed,omitempty"`
	SubmittedAt *time.Time `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
}

// SignatureValue is the structured payload of a signature answer.
type SignatureValue struct {
	Name     string `json:"name"`
	UA       string `json:"ua,omitempty"`
	SignedAt string `json:"signedAt,omitempty"`
}

// ValidSignature reports whether raw holds a signature with a non-empty name.
// A bare name string that is not valid JSON is rejected.
func ValidSignature(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	var sig SignatureValue
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		return false
	}
	return strings.TrimSpace(sig.Name) != ""
}

type EditAnswerRequest struct {
	QuestionID string      `json:"questionId" validate:"required"`
	Value      interface{} `json:"value"`
}
