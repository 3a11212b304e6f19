package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/encoding/avro"
)

type recordPublisher interface {
	Publish(ctx context.Context, topic string, key, payload []byte) error
}

// ShipNotifyPublisher queues validated SHIP_NOTIFY resource URLs.
type ShipNotifyPublisher struct {
	producer recordPublisher
	codec    *avro.ShipNotifyCodec
	topic    string
	now      func() time.Time
}

func NewShipNotifyPublisher(producer recordPublisher, topic string) (*ShipNotifyPublisher, error) {
	codec, err := avro.NewShipNotifyCodec()
	if err != nil {
		return nil, err
	}
	return &ShipNotifyPublisher{producer: producer, codec: codec, topic: topic, now: time.Now}, nil
}

func (p *ShipNotifyPublisher) PublishShipNotify(ctx context.Context, resourceURL, resourceType string) error {
	msg := avro.ShipNotifyMessage{
		MessageID:    uuid.NewString(),
		ResourceURL:  resourceURL,
		ResourceType: &resourceType,
		QueuedAt:     p.now().UTC(),
	}
	payload, err := p.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode ship notify: %w", err)
	}
	return p.producer.Publish(ctx, p.topic, []byte(msg.MessageID), payload)
}

// CustomerNotePublisher queues order numbers for the WSI note update.
// Messages are keyed by order number so updates to one order stay ordered.
type CustomerNotePublisher struct {
	producer recordPublisher
	codec    *avro.CustomerNoteCodec
	topic    string
	now      func() time.Time
}

func NewCustomerNotePublisher(producer recordPublisher, topic string) (*CustomerNotePublisher, error) {
	codec, err := avro.NewCustomerNoteCodec()
	if err != nil {
		return nil, err
	}
	return &CustomerNotePublisher{producer: producer, codec: codec, topic: topic, now: time.Now}, nil
}

func (p *CustomerNotePublisher) PublishCustomerNote(ctx context.Context, orderNumber string) error {
	payload, err := p.codec.Encode(avro.CustomerNoteMessage{
		MessageID:   uuid.NewString(),
		OrderNumber: orderNumber,
		QueuedAt:    p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode customer note: %w", err)
	}
	return p.producer.Publish(ctx, p.topic, []byte(orderNumber), payload)
}
