package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Form ---
type Form struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID     primitive.ObjectID `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`

	// Contents is the raw document tree the editor autosaves.
	Contents *Block `bson:"contents,omitempty" json:"contents,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// FormWithQuestions bundles a form with its question records.
type FormWithQuestions struct {
	Form      Form       `json:"form"`
	Questions []Question `json:"questions"`
}

type CreateFormRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateFormRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type SendFormRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
	Message    string   `json:"message" validate:"max=2000"`
}

type SaveContentsRequest struct {
	Contents *Block `json:"contents" validate:"required"`
}

type PaginatedFormsResponse struct {
	Forms      []Form `json:"forms"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}
