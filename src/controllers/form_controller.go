package controllers

import (
	"context"
	"net/http"
	"time"

	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/forms"
	"Backend-Rhea/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	return id, err == nil
}

// CreateForm creates an empty form
// @Summary      Create a new form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  models.CreateFormRequest  true  "Form"
// @Success      201  {object}  models.Form
// @Router       /forms [post]
func CreateForm(c *fiber.Ctx) error {
	var req models.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ownerID := primitive.NilObjectID
	if userID, ok := c.Locals("userId").(string); ok {
		ownerID, _ = primitive.ObjectIDFromHex(userID)
	}

	ctx, cancel := requestCtx()
	defer cancel()

	form, err := forms.CreateForm(ctx, ownerID, &req)
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to create form")
	}
	return c.Status(http.StatusCreated).JSON(form)
}

// GetForms lists forms with pagination and search
// @Summary      Get all forms with pagination and search
// @Tags         forms
// @Produce      json
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Limit"
// @Param        search  query  string  false  "Title search"
// @Success      200  {object}  models.PaginatedFormsResponse
// @Router       /forms [get]
func GetForms(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid query parameters")
	}

	ctx, cancel := requestCtx()
	defer cancel()

	res, err := forms.GetForms(ctx, params)
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to fetch forms")
	}
	return c.JSON(res)
}

// GetFormByID returns a form with its questions
// @Summary      Get a form by ID
// @Tags         forms
// @Produce      json
// @Param        id  path  string  true  "Form ID"
// @Success      200  {object}  models.FormWithQuestions
// @Router       /forms/{id} [get]
func GetFormByID(c *fiber.Ctx) error {
	formID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid form ID")
	}

	ctx, cancel := requestCtx()
	defer cancel()

	fw, err := forms.GetFormByID(ctx, formID)
	if err != nil {
		if err == forms.ErrFormNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to fetch form")
	}
	return c.JSON(fw)
}

// UpdateForm patches form title/description
// @Summary      Update a form
// @Tags         forms
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                    true  "Form ID"
// @Param        body  body  models.UpdateFormRequest  true  "Fields"
// @Success      204
// @Router       /forms/{id} [patch]
func UpdateForm(c *fiber.Ctx) error {
	formID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid form ID")
	}

	var req models.UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := forms.UpdateForm(ctx, formID, &req); err != nil {
		if err == forms.ErrFormNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to update form")
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeleteForm soft-deletes a form
// @Summary      Delete a form
// @Tags         forms
// @Security     BearerAuth
// @Param        id  path  string  true  "Form ID"
// @Success      204
// @Router       /forms/{id} [delete]
func DeleteForm(c *fiber.Ctx) error {
	formID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid form ID")
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := forms.DeleteForm(ctx, formID); err != nil {
		if err == forms.ErrFormNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to delete form")
	}
	return c.SendStatus(http.StatusNoContent)
}

// SaveContents persists the raw document tree (autosave target)
// @Summary      Save form document contents
// @Tags         forms
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                      true  "Form ID"
// @Param        body  body  models.SaveContentsRequest  true  "Document"
// @Success      204
// @Router       /forms/{id}/contents [put]
func SaveContents(c *fiber.Ctx) error {
	formID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid form ID")
	}

	var req models.SaveContentsRequest
	if err := c.BodyParser(&req); err != nil || req.Contents == nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := forms.SaveContents(ctx, formID, req.Contents); err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to save contents")
	}
	return c.SendStatus(http.StatusNoContent)
}

// PreviewForm reconciles blocks and questions, then returns the result
// @Summary      Sync and preview a form
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Form ID"
// @Success      200  {object}  models.FormWithQuestions
// @Router       /forms/{id}/preview [post]
func PreviewForm(c *fiber.Ctx) error {
	formID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid form ID")
	}
	userID, _ := c.Locals("userId").(string)

	ctx, cancel := requestCtx()
	defer cancel()

	fw, err := forms.SyncForm(ctx, userID, formID)
	if err != nil {
		if err == forms.ErrFormNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to sync form")
	}
	return c.JSON(fw)
}

// SendForm sends the form to recipients
// @Summary      Send a form to recipients
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "Form ID"
// @Param        body  body  models.SendFormRequest  true  "Recipients"
// @Success      201  {array}  models.FormFill
// @Router       /forms/{id}/send [post]
func SendForm(c *fiber.Ctx) error {
	formID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid form ID")
	}

	var req models.SendFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}
	userID, _ := c.Locals("userId").(string)

	ctx, cancel := requestCtx()
	defer cancel()

	fills, err := forms.SendForm(ctx, userID, formID, &req)
	if err != nil {
		if err == forms.ErrFormNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to send form")
	}
	return c.Status(http.StatusCreated).JSON(fills)
}
