package forms

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	DB "Backend-Rhea/src/database"
	"Backend-Rhea/src/jobs"
	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/docsync"
	"Backend-Rhea/src/services/questions"
	"Backend-Rhea/src/services/records"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrFormNotFound = errors.New("form not found")

// CreateForm creates an empty form owned by ownerID.
func CreateForm(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateFormRequest) (*models.Form, error) {
	now := time.Now()
	form := &models.Form{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Contents:    models.NewDoc(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := DB.FormCollection.InsertOne(ctx, form)
	if err != nil {
		return nil, err
	}
	form.ID = res.InsertedID.(primitive.ObjectID)
	return form, nil
}

// GetForms retrieves non-deleted forms with pagination and title search.
func GetForms(ctx context.Context, params models.PaginationParams) (*models.PaginatedFormsResponse, error) {
	filter := bson.M{"deletedAt": bson.M{"$exists": false}}
	if params.Search != "" {
		filter["title"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := DB.FormCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := DB.FormCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []models.Form
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(params.Limit)))
	return &models.PaginatedFormsResponse{
		Forms:      forms,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetFormByID retrieves a form together with its live questions in order.
func GetFormByID(ctx context.Context, formID primitive.ObjectID) (*models.FormWithQuestions, error) {
	var form models.Form
	err := DB.FormCollection.FindOne(ctx, bson.M{"_id": formID}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	qs, err := getFormQuestions(ctx, formID)
	if err != nil {
		return nil, err
	}

	return &models.FormWithQuestions{Form: form, Questions: qs}, nil
}

// UpdateForm patches title/description.
func UpdateForm(ctx context.Context, formID primitive.ObjectID, req *models.UpdateFormRequest) error {
	set := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}

	res, err := DB.FormCollection.UpdateOne(ctx, bson.M{"_id": formID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrFormNotFound
	}
	return nil
}

// DeleteForm soft-deletes a form.
func DeleteForm(ctx context.Context, formID primitive.ObjectID) error {
	now := time.Now()
	res, err := DB.FormCollection.UpdateOne(ctx,
		bson.M{"_id": formID},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrFormNotFound
	}
	return nil
}

// SaveContents persists the raw document tree (the autosave target).
func SaveContents(ctx context.Context, formID primitive.ObjectID, doc *models.Block) error {
	return records.NewMongoStore().SaveFormContents(ctx, formID, doc)
}

// SyncForm runs the full block-to-question reconciliation pass over the
// stored document: block content is pushed into question records and
// questions whose blocks disappeared are soft-deleted. Runs before any
// preview or send.
func SyncForm(ctx context.Context, userID string, formID primitive.ObjectID) (*models.FormWithQuestions, error) {
	fw, err := GetFormByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	store := questions.NewStore(records.NewMongoStore(), records.NewNotifier(userID))
	store.Load(formID, fw.Questions)

	syncer := docsync.New(store)
	syncer.SyncDocument(ctx, fw.Form.Contents)
	store.Flush()

	qs, err := getFormQuestions(ctx, formID)
	if err != nil {
		return nil, err
	}
	fw.Questions = qs
	return fw, nil
}

// SendForm reconciles the document, then creates one fill per recipient and
// queues an invitation email for each.
func SendForm(ctx context.Context, userID string, formID primitive.ObjectID, req *models.SendFormRequest) ([]models.FormFill, error) {
	if _, err := SyncForm(ctx, userID, formID); err != nil {
		return nil, err
	}

	now := time.Now()
	fills := make([]models.FormFill, 0, len(req.Recipients))
	for _, email := range req.Recipients {
		fill := models.FormFill{
			FormID:    formID,
			Token:     uuid.NewString(),
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		res, err := DB.FillCollection.InsertOne(ctx, fill)
		if err != nil {
			return nil, err
		}
		fill.ID = res.InsertedID.(primitive.ObjectID)
		fills = append(fills, fill)

		if DB.AsynqClient != nil {
			task, err := jobs.NewSendFormTask(fill.ID.Hex(), req.Message)
			if err == nil {
				_, err = DB.AsynqClient.Enqueue(task)
			}
			if err != nil {
				log.Println("[forms] failed to enqueue invitation:", err)
			}
		}
	}
	return fills, nil
}

func getFormQuestions(ctx context.Context, formID primitive.ObjectID) ([]models.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := DB.QuestionCollection.Find(ctx,
		bson.M{"formId": formID, "deletedAt": bson.M{"$exists": false}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var qs []models.Question
	if err = cursor.All(ctx, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}
