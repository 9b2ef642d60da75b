package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	startErr    error
	shutdownErr error
	started     bool
	stopped     bool
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.stopped = true

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())

		a := &mockRunnable{}
		b := &mockRunnable{}
		group.Add(a)
		group.Add(b)

		err := group.Start(context.Background())

		require.NoError(t, err)
		assert.True(t, a.started)
		assert.True(t, b.started)
	})

	t.Run("rolls back started consumers when one fails", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())

		a := &mockRunnable{}
		b := &mockRunnable{startErr: errors.New("start error")}
		group.Add(a)
		group.Add(b)

		err := group.Start(context.Background())

		assert.Error(t, err)
		assert.True(t, a.stopped)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops all consumers and closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		a := &mockRunnable{}
		b := &mockRunnable{}
		group.Add(a)
		group.Add(b)

		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.NoError(t, err)
		assert.True(t, a.stopped)
		assert.True(t, b.stopped)
		assert.True(t, sub.closed)
	})

	t.Run("reports the first shutdown error", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())

		group.Add(&mockRunnable{shutdownErr: errors.New("shutdown error")})
		group.Add(&mockRunnable{})

		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		assert.Error(t, err)
	})
}
