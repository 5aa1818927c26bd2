package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	DB "Backend-Rhea/src/database"
	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/docmodel"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrProjectNotFound = errors.New("project not found")
var ErrIssueNotFound = errors.New("issue not found")

// TransitionRejectedError is returned when the oracle vetoes a move.
type TransitionRejectedError struct {
	Reason string
}

func (e *TransitionRejectedError) Error() string {
	return "transition rejected: " + e.Reason
}

// CreateProject creates a project with optional free-text transition rules.
func CreateProject(ctx context.Context, name, rules string) (*models.Project, error) {
	now := time.Now()
	p := &models.Project{Name: name, Rules: rules, CreatedAt: now, UpdatedAt: now}

	res, err := DB.ProjectCollection.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

// CreateIssue appends an issue to the requested column.
func CreateIssue(ctx context.Context, projectID primitive.ObjectID, req *models.CreateIssueRequest) (*models.Issue, error) {
	if err := DB.ProjectCollection.FindOne(ctx, bson.M{"_id": projectID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.IssueBacklog
	}

	count, err := DB.IssueCollection.CountDocuments(ctx, bson.M{
		"projectId": projectID,
		"status":    status,
		"deletedAt": bson.M{"$exists": false},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	issue := &models.Issue{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Order:       int(count) + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := DB.IssueCollection.InsertOne(ctx, issue)
	if err != nil {
		return nil, err
	}
	issue.ID = res.InsertedID.(primitive.ObjectID)
	return issue, nil
}

// GetBoard returns the project's live issues grouped by column, ordered.
func GetBoard(ctx context.Context, projectID primitive.ObjectID) (*models.Board, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := DB.IssueCollection.Find(ctx, bson.M{
		"projectId": projectID,
		"deletedAt": bson.M{"$exists": false},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err = cursor.All(ctx, &issues); err != nil {
		return nil, err
	}

	board := &models.Board{ProjectID: projectID, Columns: map[models.IssueStatus][]models.Issue{}}
	for _, issue := range issues {
		board.Columns[issue.Status] = append(board.Columns[issue.Status], issue)
	}
	return board, nil
}

// IssueText flattens an issue into the plain text handed to the oracle.
func IssueText(issue *models.Issue) string {
	text := issue.Title
	if issue.Description != nil {
		if body := docmodel.Text(issue.Description); body != "" {
			text += "\n" + body
		}
	}
	return text
}

// CheckTransition asks the oracle whether moving issue to the target column
// is allowed under rules. No rules or no oracle means allowed; an oracle
// failure fails open with a logged warning rather than blocking the board.
func CheckTransition(ctx context.Context, oracle RuleOracle, rules string, issue *models.Issue, to models.IssueStatus) (bool, string) {
	if rules == "" || oracle == nil {
		return true, ""
	}

	text := fmt.Sprintf("Move issue from %q to %q.\n\n%s", issue.Status, to, IssueText(issue))
	valid, reason, err := oracle.Validate(ctx, rules, text)
	if err != nil {
		log.Printf("[tracker] oracle unavailable, allowing move of %s: %v", issue.ID.Hex(), err)
		return true, ""
	}
	return valid, reason
}

// MoveIssue validates and performs a column move, renumbering both affected
// columns to stay contiguous.
func MoveIssue(ctx context.Context, oracle RuleOracle, issueID primitive.ObjectID, req *models.MoveIssueRequest) (*models.Issue, error) {
	var issue models.Issue
	err := DB.IssueCollection.FindOne(ctx, bson.M{"_id": issueID, "deletedAt": bson.M{"$exists": false}}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}

	var project models.Project
	if err := DB.ProjectCollection.FindOne(ctx, bson.M{"_id": issue.ProjectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if issue.Status != req.Status {
		ok, reason := CheckTransition(ctx, oracle, project.Rules, &issue, req.Status)
		verdict := "approved"
		if !ok {
			verdict = "rejected: " + reason
		}
		_, _ = DB.IssueCollection.UpdateOne(ctx,
			bson.M{"_id": issueID},
			bson.M{"$set": bson.M{"lastVerdict": verdict}},
		)
		if !ok {
			return nil, &TransitionRejectedError{Reason: reason}
		}
	}

	from := issue.Status
	issue.Status = req.Status
	issue.Order = req.Order
	issue.UpdatedAt = time.Now()

	_, err = DB.IssueCollection.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"status": issue.Status, "order": issue.Order, "updatedAt": issue.UpdatedAt}},
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []models.IssueStatus{from, issue.Status} {
		if err := renumberColumn(ctx, issue.ProjectID, col); err != nil {
			log.Printf("[tracker] renumber %s/%s failed: %v", issue.ProjectID.Hex(), col, err)
		}
	}
	return &issue, nil
}

// DeleteIssue soft-deletes an issue and renumbers its column.
func DeleteIssue(ctx context.Context, issueID primitive.ObjectID) error {
	var issue models.Issue
	err := DB.IssueCollection.FindOne(ctx, bson.M{"_id": issueID, "deletedAt": bson.M{"$exists": false}}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrIssueNotFound
		}
		return err
	}

	now := time.Now()
	_, err = DB.IssueCollection.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	return renumberColumn(ctx, issue.ProjectID, issue.Status)
}

// renumberColumn rewrites a column's order values to a contiguous 1..N,
// keeping the current relative order. Same policy as root questions: gaps
// from deletions never survive.
func renumberColumn(ctx context.Context, projectID primitive.ObjectID, status models.IssueStatus) error {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := DB.IssueCollection.Find(ctx, bson.M{
		"projectId": projectID,
		"status":    status,
		"deletedAt": bson.M{"$exists": false},
	}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err = cursor.All(ctx, &issues); err != nil {
		return err
	}

	for i, issue := range issues {
		if issue.Order == i+1 {
			continue
		}
		_, err := DB.IssueCollection.UpdateOne(ctx,
			bson.M{"_id": issue.ID},
			bson.M{"$set": bson.M{"order": i + 1}},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
