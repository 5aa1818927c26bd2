package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus is a Kanban column.
type IssueStatus string

const (
	IssueBacklog IssueStatus = "backlog"
	IssueTodo    IssueStatus = "todo"
	IssueDoing   IssueStatus = "doing"
	IssueDone    IssueStatus = "done"
)

// ValidIssueStatus reports whether s names a known column.
func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case IssueBacklog, IssueTodo, IssueDoing, IssueDone:
		return true
	}
	return false
}

// Project groups issues and carries the free-text transition rules the
// validation oracle checks moves against.
type Project struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Rules string             `bson:"rules,omitempty" json:"rules,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Issue struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	Title     string             `bson:"title" json:"title"`

	// Description is a small rich-text tree, same shape as form contents.
	Description *Block `bson:"description,omitempty" json:"description,omitempty"`

	Status IssueStatus `bson:"status" json:"status"`
	Order  int         `bson:"order" json:"order"`

	// LastVerdict records the most recent oracle decision, for the board UI.
	LastVerdict string `bson:"lastVerdict,omitempty" json:"lastVerdict,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

type CreateIssueRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=300"`
	Description *Block      `json:"description,omitempty"`
	Status      IssueStatus `json:"status" validate:"omitempty,oneof=backlog todo doing done"`
}

type MoveIssueRequest struct {
	Status IssueStatus `json:"status" validate:"required,oneof=backlog todo doing done"`
	Order  int         `json:"order" validate:"min=0"`
}

// Board is the issues of one project grouped by column.
type Board struct {
	ProjectID primitive.ObjectID      `json:"projectId"`
	Columns   map[IssueStatus][]Issue `json:"columns"`
}
