package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeSendForm = "form:send"

type SendFormPayload struct {
	FillID  string `json:"fill_id"`
	Message string `json:"message,omitempty"`
}

func NewSendFormTask(fillID, message string) (*asynq.Task, error) {
	payload, err := json.Marshal(SendFormPayload{FillID: fillID, Message: message})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendForm, payload), nil
}

const TypeValidateIssue = "issue:validate"

type IssuePayload struct {
	IssueID string `json:"issue_id"`
}

func NewValidateIssueTask(issueID string) (*asynq.Task, error) {
	payload, err := json.Marshal(IssuePayload{IssueID: issueID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeValidateIssue, payload), nil
}
