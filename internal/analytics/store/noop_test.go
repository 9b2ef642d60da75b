package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/analytics"
	"github.com/serroba/shortlink/internal/analytics/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	noop := store.NewNoop(zap.NewNop())

	t.Run("accepts created events", func(t *testing.T) {
		err := noop.SaveLinkCreated(ctx, &analytics.LinkCreatedEvent{
			Code:        "abc123",
			OriginalURL: "https://example.com",
			CreatedAt:   time.Now(),
		})

		require.NoError(t, err)
	})

	t.Run("accepts accessed events", func(t *testing.T) {
		err := noop.SaveLinkAccessed(ctx, &analytics.LinkAccessedEvent{
			Code:       "abc123",
			AccessedAt: time.Now(),
		})

		require.NoError(t, err)
	})
}
