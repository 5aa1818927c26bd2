package controllers

import (
	"net/http"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/fills"
	"Backend-Rhea/src/utils"

	"github.com/gofiber/fiber/v2"
)

// GetFill returns a fill session: questions, current answers, completion
// @Summary      Get a fill session by token
// @Tags         fills
// @Produce      json
// @Param        token  path  string  true  "Share token"
// @Success      200
// @Router       /fills/{token} [get]
func GetFill(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	session, err := fills.LoadSession(ctx, c.Params("token"))
	if err != nil {
		if err == fills.ErrFillNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to load fill")
	}

	return c.JSON(fiber.Map{
		"fill":      session.Fill(),
		"questions": session.Questions(),
	})
}

// EditAnswer upserts one answer and refreshes completion
// @Summary      Answer a question
// @Tags         fills
// @Accept       json
// @Produce      json
// @Param        token  path  string                    true  "Share token"
// @Param        body   body  models.EditAnswerRequest  true  "Answer"
// @Success      200
// @Router       /fills/{token}/answers [put]
func EditAnswer(c *fiber.Ctx) error {
	var req models.EditAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestCtx()
	defer cancel()

	session, err := fills.LoadSession(ctx, c.Params("token"))
	if err != nil {
		if err == fills.ErrFillNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to load fill")
	}

	if err := session.EditAnswer(ctx, req.QuestionID, req.Value); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{"completed": session.Fill().Completed})
}

// SubmitFill validates required answers and stamps the fill submitted
// @Summary      Submit a fill
// @Tags         fills
// @Produce      json
// @Param        token  path  string  true  "Share token"
// @Success      200
// @Failure      422
// @Router       /fills/{token}/submit [post]
func SubmitFill(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	session, err := fills.LoadSession(ctx, c.Params("token"))
	if err != nil {
		if err == fills.ErrFillNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to load fill")
	}

	errs, err := session.Submit(ctx)
	if err != nil {
		if err == fills.ErrAlreadySubmitted {
			return utils.HandleError(c, http.StatusConflict, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to submit")
	}
	if len(errs) > 0 {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
	}

	return c.JSON(session.Fill())
}
