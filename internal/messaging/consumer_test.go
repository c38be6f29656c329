package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type linkEvent struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()

	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })

	return ps
}

func rawMessage(t *testing.T, v any) *message.Message {
	t.Helper()

	payload, err := json.Marshal(v)
	require.NoError(t, err)

	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestConsumer_Delivery(t *testing.T) {
	ps := newPubSub(t)
	got := make(chan *messaging.Delivery[linkEvent], 1)

	consumer := messaging.NewConsumer(ps, "link.created",
		func(_ context.Context, d *messaging.Delivery[linkEvent]) error {
			got <- d

			return nil
		},
		zap.NewNop(),
	)
	require.NoError(t, consumer.Start(context.Background()))
	t.Cleanup(func() { _ = consumer.Shutdown() })

	publish := messaging.NewPublishFunc[linkEvent](ps, "link.created")
	ctx := messaging.WithCorrelationID(context.Background(), "run-1")
	require.NoError(t, publish(ctx, &linkEvent{ID: 42, Code: "abc123"}))

	select {
	case d := <-got:
		assert.Equal(t, linkEvent{ID: 42, Code: "abc123"}, d.Event)
		assert.Equal(t, "link.created", d.Topic)
		assert.Equal(t, "run-1", d.CorrelationID)
		assert.NotEmpty(t, d.MessageID)
		assert.WithinDuration(t, time.Now(), d.PublishedAt, time.Minute)
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}

	assert.Equal(t, "link.created", consumer.Topic())
}

func TestConsumer_FailureHandling(t *testing.T) {
	t.Run("undecodable events are dropped without blocking the topic", func(t *testing.T) {
		ps := newPubSub(t)

		var calls atomic.Int32

		consumer := messaging.NewConsumer(ps, "t",
			func(_ context.Context, _ *messaging.Delivery[linkEvent]) error {
				calls.Add(1)

				return nil
			},
			zap.NewNop(),
		)
		require.NoError(t, consumer.Start(context.Background()))
		t.Cleanup(func() { _ = consumer.Shutdown() })

		require.NoError(t, ps.Publish("t", message.NewMessage(watermill.NewUUID(), []byte("not json"))))
		require.NoError(t, ps.Publish("t", rawMessage(t, linkEvent{ID: 1})))

		assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("failing handler is retried then dropped", func(t *testing.T) {
		ps := newPubSub(t)

		var calls atomic.Int32

		consumer := messaging.NewConsumer(ps, "t",
			func(_ context.Context, d *messaging.Delivery[linkEvent]) error {
				calls.Add(1)

				if d.Event.ID == 1 {
					return errors.New("boom")
				}

				return nil
			},
			zap.NewNop(),
			messaging.WithMaxAttempts(3),
		)
		require.NoError(t, consumer.Start(context.Background()))
		t.Cleanup(func() { _ = consumer.Shutdown() })

		require.NoError(t, ps.Publish("t", rawMessage(t, linkEvent{ID: 1})))
		require.NoError(t, ps.Publish("t", rawMessage(t, linkEvent{ID: 2})))

		assert.Eventually(t, func() bool { return calls.Load() == 4 }, time.Second, 5*time.Millisecond)
		assert.Never(t, func() bool { return calls.Load() > 4 }, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("recovering handler is acked", func(t *testing.T) {
		ps := newPubSub(t)

		var calls atomic.Int32

		consumer := messaging.NewConsumer(ps, "t",
			func(_ context.Context, _ *messaging.Delivery[linkEvent]) error {
				if calls.Add(1) == 1 {
					return errors.New("transient")
				}

				return nil
			},
			zap.NewNop(),
		)
		require.NoError(t, consumer.Start(context.Background()))
		t.Cleanup(func() { _ = consumer.Shutdown() })

		require.NoError(t, ps.Publish("t", rawMessage(t, linkEvent{ID: 7})))

		assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
		assert.Never(t, func() bool { return calls.Load() > 2 }, 100*time.Millisecond, 10*time.Millisecond)
	})
}

type brokenSubscriber struct{}

func (brokenSubscriber) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return nil, errors.New("no broker")
}

func (brokenSubscriber) Close() error { return nil }

func TestConsumer_Lifecycle(t *testing.T) {
	noop := func(context.Context, *messaging.Delivery[linkEvent]) error { return nil }

	t.Run("subscribe failure leaves shutdown usable", func(t *testing.T) {
		consumer := messaging.NewConsumer(brokenSubscriber{}, "t", noop, zap.NewNop())

		require.Error(t, consumer.Start(context.Background()))
		assert.NoError(t, consumer.Shutdown())
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		consumer := messaging.NewConsumer(newPubSub(t), "t", noop, zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())

		require.NoError(t, consumer.Start(ctx))
		cancel()

		done := make(chan struct{})
		go func() {
			_ = consumer.Shutdown()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("shutdown hung")
		}
	})

	t.Run("stops when the subscription closes", func(t *testing.T) {
		ps := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
		consumer := messaging.NewConsumer(ps, "t", noop, zap.NewNop())

		require.NoError(t, consumer.Start(context.Background()))
		require.NoError(t, ps.Close())

		assert.NoError(t, consumer.Shutdown())
	})
}
