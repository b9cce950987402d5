package events_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/A-Paradis/gridduel/internal/events"
)

func TestPublish_DeliversInSubscriptionOrder(t *testing.T) {
	bus := events.NewBus(zaptest.NewLogger(t))
	var got []string

	bus.Subscribe("greet", func(payload any) { got = append(got, "first:"+payload.(string)) })
	bus.Subscribe("greet", func(payload any) { got = append(got, "second:"+payload.(string)) })

	bus.Publish("greet", "hi")

	assert.Equal(t, []string{"first:hi", "second:hi"}, got)
}

func TestPublish_NoSubscribersIsDropped(t *testing.T) {
	bus := events.NewBus(zaptest.NewLogger(t))
	assert.NotPanics(t, func() { bus.Publish("nobody-home", 42) })
}

func TestPublish_TopicsAreIndependent(t *testing.T) {
	bus := events.NewBus(zaptest.NewLogger(t))
	var aCount, bCount int

	bus.Subscribe("a", func(any) { aCount++ })
	bus.Subscribe("b", func(any) { bCount++ })

	bus.Publish("a", nil)
	bus.Publish("a", nil)
	bus.Publish("b", nil)

	assert.Equal(t, 2, aCount)
	assert.Equal(t, 1, bCount)
}

func TestPublishAfter_DeliversOnceDelayElapses(t *testing.T) {
	bus := events.NewBus(zaptest.NewLogger(t))
	var delivered atomic.Int32
	bus.Subscribe("later", func(payload any) {
		require.Equal(t, "payload", payload)
		delivered.Add(1)
	})

	bus.PublishAfter(10*time.Millisecond, "later", "payload")

	assert.Zero(t, delivered.Load())
	require.Eventually(t, func() bool {
		return delivered.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPublishAfter_CancelStopsDelivery(t *testing.T) {
	bus := events.NewBus(zaptest.NewLogger(t))
	var delivered atomic.Int32
	bus.Subscribe("later", func(any) { delivered.Add(1) })

	cancel := bus.PublishAfter(20*time.Millisecond, "later", nil)
	cancel()
	cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, delivered.Load())
}
