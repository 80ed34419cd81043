package bus

import (
	"context"

	"github.com/peerlink/peerlink-backend/internal/realtime"
)

// Bus fans SSE messages out across service instances. A single-instance
// deployment can run without one; the hub alone then serves all clients.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
