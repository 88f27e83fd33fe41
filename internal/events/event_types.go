package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
	EventImageUploaded  EventType = "image_uploaded"
	EventImageDeleted   EventType = "image_deleted"
)

// Actor identifies who triggered the event.
type Actor struct {
	UserID string `json:"user_id"`
	Method string `json:"method"`
}

// Event represents a catalog change emitted by services after it succeeded.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProductID string      `json:"product_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, actor Actor, productID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProductID: productID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ProductUpdatedPayload payload.
type ProductUpdatedPayload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// ProductDeletedPayload payload.
type ProductDeletedPayload struct {
	Name         string `json:"name"`
	ImageURL     string `json:"image_url,omitempty"`
	ImageRemoved bool   `json:"image_removed"`
}

// ImagePayload payload for upload and delete events.
type ImagePayload struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
}
