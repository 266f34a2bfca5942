// Package messaging defines the event publishing contract used by the services.
package messaging

import (
	"context"
)

const (
	SalesCreatedSubject = "sales.created"
	SalesAmendedSubject = "sales.amended"
	SalesDeletedSubject = "sales.deleted"
	// SalesSubjects matches every sale event and is used to bind the JetStream stream.
	SalesSubjects = "sales.>"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event. Used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
