package records

import (
	"encoding/json"
	"fmt"
	"log"

	DB "Backend-Rhea/src/database"
)

// RedisNotifier publishes toast messages on a per-user Redis channel the
// frontend subscribes to.
type RedisNotifier struct {
	UserID string
}

type toastPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (n *RedisNotifier) publish(level, message string) {
	client := DB.RedisClient
	if client == nil {
		log.Printf("[notify:%s] %s: %s", n.UserID, level, message)
		return
	}

	payload, _ := json.Marshal(toastPayload{Level: level, Message: message})
	channel := fmt.Sprintf("notify:%s", n.UserID)
	if err := client.Publish(DB.RedisCtx, channel, payload).Err(); err != nil {
		// fire-and-forget: a lost toast is not worth failing the caller
		log.Println("failed to publish notification:", err)
	}
}

func (n *RedisNotifier) Error(message string)   { n.publish("error", message) }
func (n *RedisNotifier) Success(message string) { n.publish("success", message) }

// NewNotifier returns the notifier for one editing user.
func NewNotifier(userID string) Notifier {
	return &RedisNotifier{UserID: userID}
}
