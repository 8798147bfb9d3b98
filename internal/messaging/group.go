package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs a set of consumers over one shared subscriber and tears
// them down together. Start is all-or-nothing: a failure rolls back the
// consumers already running.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group over the subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer. Not safe to call after Start.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.consumers = append(g.consumers, consumer)
}

// Start starts every consumer in registration order.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	started := 0

	for i, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			for j := started - 1; j >= 0; j-- {
				_ = g.consumers[j].Shutdown()
			}

			return fmt.Errorf("start consumer %d: %w", i, err)
		}

		started++
	}

	g.logger.Info("consumer group running", zap.Int("consumers", started))

	return nil
}

// Shutdown stops every consumer and closes the subscriber. All shutdowns are
// attempted; the first error wins.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("consumer group stopping")

	var firstErr error

	for _, consumer := range g.consumers {
		if err := consumer.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
