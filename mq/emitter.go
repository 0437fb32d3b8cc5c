package mq

import (
	"context"
	"encoding/json"
	"log"

	"foodlink/models"
	"foodlink/rdx"
	"foodlink/utils"
)

// Emit publishes an entity-change event to Redis for downstream consumers
// (search indexing, analytics). Failures are logged and dropped.
func Emit(ctx context.Context, eventName string, content models.Index) {
	content.EventID = utils.GetUUID()
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, "entity-events", data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event to Redis: %v", eventName, err)
	}
}
