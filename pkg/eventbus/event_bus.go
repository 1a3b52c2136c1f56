// Package eventbus carries playback lifecycle events to interested consumers such as
// renderers, progress pollers and audit sinks.
package eventbus

import (
	"context"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
