package controllers

import (
	"errors"
	"log"
	"net/http"

	DB "Backend-Rhea/src/database"
	"Backend-Rhea/src/jobs"
	"Backend-Rhea/src/models"
	"Backend-Rhea/src/services/tracker"
	"Backend-Rhea/src/utils"

	"github.com/gofiber/fiber/v2"
)

type createProjectRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Rules string `json:"rules" validate:"max=5000"`
}

// CreateProject creates a project board
// @Summary      Create a project
// @Tags         tracker
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Project
// @Router       /projects [post]
func CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestCtx()
	defer cancel()

	project, err := tracker.CreateProject(ctx, req.Name, req.Rules)
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to create project")
	}
	return c.Status(http.StatusCreated).JSON(project)
}

// GetBoard returns a project's issues grouped by column
// @Summary      Get a project board
// @Tags         tracker
// @Produce      json
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  models.Board
// @Router       /projects/{id}/board [get]
func GetBoard(c *fiber.Ctx) error {
	projectID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid project ID")
	}

	ctx, cancel := requestCtx()
	defer cancel()

	board, err := tracker.GetBoard(ctx, projectID)
	if err != nil {
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to fetch board")
	}
	return c.JSON(board)
}

// CreateIssue adds an issue to a project
// @Summary      Create an issue
// @Tags         tracker
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "Project ID"
// @Param        body  body  models.CreateIssueRequest true  "Issue"
// @Success      201  {object}  models.Issue
// @Router       /projects/{id}/issues [post]
func CreateIssue(c *fiber.Ctx) error {
	projectID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid project ID")
	}

	var req models.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestCtx()
	defer cancel()

	issue, err := tracker.CreateIssue(ctx, projectID, &req)
	if err != nil {
		if err == tracker.ErrProjectNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to create issue")
	}
	return c.Status(http.StatusCreated).JSON(issue)
}

// MoveIssue moves an issue between columns, oracle permitting
// @Summary      Move an issue
// @Tags         tracker
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "Issue ID"
// @Param        body  body  models.MoveIssueRequest true  "Target"
// @Success      200  {object}  models.Issue
// @Failure      422
// @Router       /issues/{id}/move [post]
func MoveIssue(c *fiber.Ctx) error {
	issueID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid issue ID")
	}

	var req models.MoveIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid input")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestCtx()
	defer cancel()

	issue, err := tracker.MoveIssue(ctx, tracker.NewHTTPOracleFromEnv(), issueID, &req)
	if err != nil {
		var rejected *tracker.TransitionRejectedError
		if errors.As(err, &rejected) {
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": rejected.Error()})
		}
		if err == tracker.ErrIssueNotFound || err == tracker.ErrProjectNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to move issue")
	}

	// board column changed; refresh the stored verdict in the background
	if DB.AsynqClient != nil {
		if task, err := jobs.NewValidateIssueTask(issueID.Hex()); err == nil {
			if _, err := DB.AsynqClient.Enqueue(task); err != nil {
				log.Println("failed to enqueue issue validation:", err)
			}
		}
	}

	return c.JSON(issue)
}

// DeleteIssue soft-deletes an issue
// @Summary      Delete an issue
// @Tags         tracker
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue ID"
// @Success      204
// @Router       /issues/{id} [delete]
func DeleteIssue(c *fiber.Ctx) error {
	issueID, ok := objectIDParam(c, "id")
	if !ok {
		return utils.HandleError(c, http.StatusBadRequest, "Invalid issue ID")
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := tracker.DeleteIssue(ctx, issueID); err != nil {
		if err == tracker.ErrIssueNotFound {
			return utils.HandleError(c, http.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, http.StatusInternalServerError, "Failed to delete issue")
	}
	return c.SendStatus(http.StatusNoContent)
}
