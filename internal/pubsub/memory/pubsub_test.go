package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSub_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ps := NewPubSub(config.GetDefaultConfig(), logger.NewNoopLogger())
	defer ps.Close()

	messages, err := ps.Subscribe(ctx, "commission-events")
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"ledger_id":"ldg_1"}`))
	msg.Metadata.Set("event_name", "commission.ledger.created")
	require.NoError(t, ps.Publish(ctx, "commission-events", msg))

	select {
	case received := <-messages:
		assert.Equal(t, msg.UUID, received.UUID)
		assert.Equal(t, "commission.ledger.created", received.Metadata.Get("event_name"))
		received.Ack()
	case <-ctx.Done():
		t.Fatal("message was not delivered")
	}
}
