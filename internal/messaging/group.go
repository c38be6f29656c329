package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs several consumers over one subscriber and owns that subscriber.
type ConsumerGroup struct {
	subscriber message.Subscriber
	pending    []Runnable
	running    []Runnable
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group over subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{subscriber: subscriber, logger: logger}
}

// Add registers a consumer to be started by Start.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.pending = append(g.pending, consumer)
}

// Start starts every registered consumer. It is all or nothing: when one fails to start,
// the ones already running are stopped.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, consumer := range g.pending {
		if err := consumer.Start(ctx); err != nil {
			_ = g.stopRunning()

			return fmt.Errorf("start consumer %d of %d: %w", i+1, len(g.pending), err)
		}

		g.running = append(g.running, consumer)
	}

	g.pending = nil
	g.logger.Info("consumers running", zap.Int("count", len(g.running)))

	return nil
}

// Shutdown stops running consumers in reverse start order, then closes the subscriber.
func (g *ConsumerGroup) Shutdown() error {
	err := g.stopRunning()

	return errors.Join(err, g.subscriber.Close())
}

func (g *ConsumerGroup) stopRunning() error {
	var errs []error

	for i := len(g.running) - 1; i >= 0; i-- {
		if err := g.running[i].Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}

	g.running = nil

	return errors.Join(errs...)
}
