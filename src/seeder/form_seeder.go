package seeder

import (
	"context"
	"log"
	"os"
	"time"

	"Backend-Rhea/src/database"
	"Backend-Rhea/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemoData creates an admin user and a sample form with one question
// of every supported type. Safe to run more than once.
func SeedDemoData() error {
	ctx := context.Background()

	if err := seedAdminUser(ctx); err != nil {
		return err
	}
	return seedSampleForm(ctx)
}

func seedAdminUser(ctx context.Context) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@rhea.local"
	}

	count, err := database.UserCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin1234"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Admin",
		Email:    email,
		Password: string(hashed),
		Role:     "admin",
	}
	_, err = database.UserCollection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	log.Println("Seeded admin user:", email)
	return nil
}

func seedSampleForm(ctx context.Context) error {
	const title = "Event Feedback"

	count, err := database.FormCollection.CountDocuments(ctx, bson.M{"title": title})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	formID := primitive.NewObjectID()
	now := time.Now()

	nameQ := primitive.NewObjectID()
	commentsQ := primitive.NewObjectID()
	ratingQ := primitive.NewObjectID()
	topicsQ := primitive.NewObjectID()
	signQ := primitive.NewObjectID()

	questions := []interface{}{
		models.Question{ID: nameQ, FormID: formID, Type: models.ShortAnswer, Title: "Your name", Required: true, Order: 1, CreatedAt: &now},
		models.Question{ID: commentsQ, FormID: formID, Type: models.LongAnswer, Title: "Any comments about the event?", Required: false, Order: 2, CreatedAt: &now},
		models.Question{ID: ratingQ, FormID: formID, Type: models.RadioButtons, Title: "How was the event overall?", Options: "Great\nOkay\nPoor", Required: true, Order: 3, CreatedAt: &now},
		models.Question{ID: topicsQ, FormID: formID, Type: models.Checkboxes, Title: "Which sessions did you attend?", Options: "Keynote\nWorkshops\nNetworking", Required: false, Order: 4, CreatedAt: &now},
		models.Question{ID: signQ, FormID: formID, Type: models.SignatureQuestion, Title: "Sign to confirm attendance", Required: true, Order: 5, CreatedAt: &now},
	}

	contents := models.NewDoc(
		models.Block{Type: models.BlockSection, Attrs: &models.BlockAttrs{Level: 1}, Content: []models.Block{
			{Type: models.BlockText, Text: "Event Feedback"},
		}},
		questionBlock(models.BlockTextQuestion, nameQ.Hex(), "Your name"),
		questionBlock(models.BlockTextQuestion, commentsQ.Hex(), "Any comments about the event?"),
		choiceBlock(ratingQ.Hex(), false, []string{"Great", "Okay", "Poor"}),
		choiceBlock(topicsQ.Hex(), true, []string{"Keynote", "Workshops", "Networking"}),
		questionBlock(models.BlockSignature, signQ.Hex(), "Sign to confirm attendance"),
	)

	form := models.Form{
		ID:          formID,
		Title:       title,
		Description: "Tell us how the event went",
		Contents:    contents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.FormCollection.InsertOne(ctx, form); err != nil {
		return err
	}
	if _, err := database.QuestionCollection.InsertMany(ctx, questions); err != nil {
		return err
	}
	log.Println("Seeded sample form:", title)
	return nil
}

func questionBlock(t models.BlockType, id, title string) models.Block {
	return models.Block{
		Type:  t,
		Attrs: &models.BlockAttrs{ID: id},
		Content: []models.Block{
			{Type: models.BlockText, Text: title},
		},
	}
}

// choiceBlock children are option blocks only; the question title lives on
// the question record.
func choiceBlock(id string, multiple bool, options []string) models.Block {
	b := models.Block{
		Type:  models.BlockChoiceList,
		Attrs: &models.BlockAttrs{ID: id, Multiple: multiple},
	}
	for i, opt := range options {
		b.Content = append(b.Content, models.Block{
			Type:  models.BlockChoiceOption,
			Attrs: &models.BlockAttrs{Index: i},
			Text:  opt,
		})
	}
	return b
}
