package records

import (
	"context"
	"errors"

	"Backend-Rhea/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPermissionDenied marks an application-level rejection, as opposed to a
// transport failure. Callers surface it instead of retrying.
var ErrPermissionDenied = errors.New("permission denied")

// Store is the remote record store the editing core writes through. The
// concrete transport (Mongo here) is swappable; tests use the in-memory
// implementation in memory.go.
type Store interface {
	CreateQuestion(ctx context.Context, q *models.Question) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id primitive.ObjectID, patch models.QuestionPatch) error
	SaveFormContents(ctx context.Context, formID primitive.ObjectID, doc *models.Block) error
	CreateOrUpdateAnswer(ctx context.Context, fillID, questionID primitive.ObjectID, value string) (*models.Answer, error)
	UpdateFormFill(ctx context.Context, fillID primitive.ObjectID, patch models.FormFillPatch) error
}

// Notifier delivers toast-style messages to the editing user. Calls are
// fire-and-forget; delivery failures are only logged.
type Notifier interface {
	Error(message string)
	Success(message string)
}
