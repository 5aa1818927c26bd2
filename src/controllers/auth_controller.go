package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services"
	"Backend-Rhea/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// newRefreshToken returns a 64-hex-char opaque token.
func newRefreshToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// Login authenticates a user and returns JWT + refresh token
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.LoginRequest  true  "Credentials"
// @Success      200  {object}  models.LoginResponse
// @Router       /auth/login [post]
func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := services.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		return utils.HandleError(c, http.StatusUnauthorized, err.Error())
	}

	accessToken, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to generate token")
	}

	refreshToken := newRefreshToken()
	if err := utils.StoreRefreshToken(user.ID.Hex(), refreshToken, 7*24*time.Hour); err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to store refresh token")
	}

	return c.JSON(models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// Logout drops the user's refresh token
// @Summary      Log out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	if userID != "" {
		_ = utils.DeleteRefreshToken(userID)
	}
	return c.SendStatus(http.StatusNoContent)
}
