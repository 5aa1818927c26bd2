package records

import (
	"context"
	"time"

	DB "Backend-Rhea/src/database"
	"Backend-Rhea/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the production Store backed by the shared Mongo collections.
type MongoStore struct{}

func NewMongoStore() *MongoStore {
	return &MongoStore{}
}

func (s *MongoStore) CreateQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	now := time.Now()
	q.CreatedAt = &now

	res, err := DB.QuestionCollection.InsertOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		q.ID = oid
	}
	return q, nil
}

func (s *MongoStore) UpdateQuestion(ctx context.Context, id primitive.ObjectID, patch models.QuestionPatch) error {
	// zero pointer fields marshal away via omitempty, so the $set only
	// touches what the patch carries
	_, err := DB.QuestionCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	return err
}

func (s *MongoStore) SaveFormContents(ctx context.Context, formID primitive.ObjectID, doc *models.Block) error {
	_, err := DB.FormCollection.UpdateOne(ctx,
		bson.M{"_id": formID},
		bson.M{"$set": bson.M{"contents": doc, "updatedAt": time.Now()}},
	)
	return err
}

func (s *MongoStore) CreateOrUpdateAnswer(ctx context.Context, fillID, questionID primitive.ObjectID, value string) (*models.Answer, error) {
	now := time.Now()
	filter := bson.M{"fillId": fillID, "questionId": questionID}
	update := bson.M{
		"$set":         bson.M{"value": value, "updatedAt": now},
		"$setOnInsert": bson.M{"fillId": fillID, "questionId": questionID, "createdAt": now},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := DB.AnswerCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, err
	}

	var answer models.Answer
	if err := DB.AnswerCollection.FindOne(ctx, filter).Decode(&answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func (s *MongoStore) UpdateFormFill(ctx context.Context, fillID primitive.ObjectID, patch models.FormFillPatch) error {
	_, err := DB.FillCollection.UpdateOne(ctx,
		bson.M{"_id": fillID},
		bson.M{"$set": patch},
	)
	return err
}
