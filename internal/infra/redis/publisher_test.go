package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(context.Background(), Config{Channel: "events"}, zap.NewNop())
	require.Error(t, err)

	_, err = NewPublisher(context.Background(), Config{Addr: "127.0.0.1:6379"}, zap.NewNop())
	require.Error(t, err)
}

func TestNewPublisher_Unreachable(t *testing.T) {
	// Port 1 is reserved and refuses connections.
	_, err := NewPublisher(context.Background(), Config{Addr: "127.0.0.1:1", Channel: "events"}, zap.NewNop())
	require.ErrorContains(t, err, "redis ping")
}
