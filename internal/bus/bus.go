package bus

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrichain/agrichain/internal/domain"
)

// MetadataReplyTo names the topic a request handler should publish its reply to.
const MetadataReplyTo = "reply_to"

// New creates a new event bus based on configuration.
// For Community tier: returns ChannelBus.
// For Pro tier: returns NATSBus.
func New(cfg domain.EventBusConfig) (domain.EventBus, error) {
	switch cfg.Type {
	case "channel":
		return NewChannelBus(cfg.ChannelBufferSize), nil

	case "nats":
		return NewNATSBus(cfg)

	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", cfg.Type)
	}
}

func newMessage(topic string, payload []byte, metadata map[string]string) *domain.Message {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &domain.Message{
		ID:        uuid.New().String(),
		Topic:     topic,
		Payload:   payload,
		Metadata:  metadata,
		Timestamp: time.Now().UnixNano(),
	}
}
