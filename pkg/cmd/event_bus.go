package cmd

import (
	"fmt"
	"log/slog"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/channels/gochannel"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/channels/kafka"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
)

const serviceName = "storymap"

// NewEventBus creates the playback event bus. "none" and the empty string return nil,
// which turns event publishing off.
func NewEventBus(provider, kafkaBrokers string, logger *slog.Logger) (*eventbus.WatermillEventBus, error) {
	wlogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "", "none":
		return nil, nil //nolint:nilnil
	case "gochannel":
		pub, sub, err := gochannel.CreateChannel(wlogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create go channel pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wlogger, kafkaBrokers, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
