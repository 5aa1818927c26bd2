package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"Backend-Rhea/src/database"
	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/mailer"
	"Backend-Rhea/src/services/tracker"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleSendFormTask emails one fill invitation.
func HandleSendFormTask(ctx context.Context, t *asynq.Task) error {
	var payload SendFormPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("send-form payload decode error:", err)
		return err
	}

	fillID, err := primitive.ObjectIDFromHex(payload.FillID)
	if err != nil {
		return err
	}

	var fill models.FormFill
	err = database.FillCollection.FindOne(ctx, bson.M{"_id": fillID}).Decode(&fill)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("fill not found, possibly deleted. Skipping task:", payload.FillID)
			return nil
		}
		return err
	}

	var form models.Form
	if err := database.FormCollection.FindOne(ctx, bson.M{"_id": fill.FormID}).Decode(&form); err != nil {
		return err
	}

	sender, err := mailer.NewSMTPSenderFromEnv()
	if err != nil {
		log.Println("SMTP not configured, skipping invitation:", err)
		return nil
	}

	appURL := os.Getenv("APP_URL")
	fillURL := fmt.Sprintf("%s/fill/%s", appURL, fill.Token)
	html := mailer.InvitationHTML(form.Title, payload.Message, fillURL)

	if err := sender.Send(fill.Email, "Please fill out: "+form.Title, html); err != nil {
		log.Println("failed to send invitation:", err)
		return err
	}

	log.Println("invitation sent:", fill.Email, "form:", form.ID.Hex())
	return nil
}

// HandleValidateIssueTask re-runs the oracle on one issue and stores the
// verdict for the board UI.
func HandleValidateIssueTask(ctx context.Context, t *asynq.Task) error {
	var payload IssuePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	issueID, err := primitive.ObjectIDFromHex(payload.IssueID)
	if err != nil {
		return err
	}

	var issue models.Issue
	err = database.IssueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("issue not found. Skipping task:", payload.IssueID)
			return nil
		}
		return err
	}

	var project models.Project
	if err := database.ProjectCollection.FindOne(ctx, bson.M{"_id": issue.ProjectID}).Decode(&project); err != nil {
		return err
	}

	oracle := tracker.NewHTTPOracleFromEnv()
	if oracle == nil || project.Rules == "" {
		return nil
	}

	valid, reason, err := oracle.Validate(ctx, project.Rules, tracker.IssueText(&issue))
	if err != nil {
		log.Println("oracle call failed:", err)
		return err
	}

	verdict := "approved"
	if !valid {
		verdict = "rejected: " + reason
	}
	_, err = database.IssueCollection.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"lastVerdict": verdict}},
	)
	return err
}

// StartWorker runs the Asynq server until the process exits. No-op when
// Redis is not configured.
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("Redis not available. Background worker not started.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSendForm, HandleSendFormTask)
	mux.HandleFunc(TypeValidateIssue, HandleValidateIssueTask)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Println("asynq worker stopped:", err)
		}
	}()
}
