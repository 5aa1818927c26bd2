package services

import (
	"context"
	"errors"
	"strings"

	"Backend-Rhea/src/database"
	"Backend-Rhea/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticateUser checks credentials against the users collection.
func AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	var dbUser models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&dbUser)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	dbUser.Password = ""
	return &dbUser, nil
}
