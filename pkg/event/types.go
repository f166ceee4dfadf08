package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

// Type builds the event type for a resource and operation, e.g. PATIENT_CREATE.
func Type(resource, operation string) EventType {
	return EventType(fmt.Sprintf("%s_%s", strings.ToUpper(resource), strings.ToUpper(operation)))
}

// Wildcard subscribers receive every event.
const Wildcard EventType = "*"

// Change is the before and after value of one field.
type Change struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Event describes a committed mutation.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Type       EventType         `json:"event_type"`
	Resource   string            `json:"resource"`
	Operation  string            `json:"operation"`
	EntityID   string            `json:"entity_id"`
	Actor      string            `json:"actor"`
	Changes    map[string]Change `json:"changes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Handler reacts to a published event. Errors are logged by the bus and do
// not affect the publisher.
type Handler func(ctx context.Context, evt Event) error

type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

type FieldExtractor interface {
	ExtractFields(obj interface{}, fields []string) map[string]interface{}
	ExtractChanges(old, new interface{}, fields []string) map[string]Change
}
