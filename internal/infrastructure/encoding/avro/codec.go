package avro

import (
	"fmt"
	"time"
)

// ShipNotifyCodec converts ShipNotifyMessage to and from Avro binary.
type ShipNotifyCodec struct {
	enc *Encoder
}

func NewShipNotifyCodec() (*ShipNotifyCodec, error) {
	enc, err := NewEncoder(ShipNotifySchema)
	if err != nil {
		return nil, err
	}
	return &ShipNotifyCodec{enc: enc}, nil
}

func (c *ShipNotifyCodec) Encode(m ShipNotifyMessage) ([]byte, error) {
	// goavro wants union values wrapped as {"type": value}.
	var resourceType interface{}
	if m.ResourceType != nil {
		resourceType = map[string]interface{}{"string": *m.ResourceType}
	}
	return c.enc.EncodeNative(map[string]interface{}{
		"message_id":    m.MessageID,
		"resource_url":  m.ResourceURL,
		"resource_type": resourceType,
		"queued_at":     m.QueuedAt.UnixMilli(),
	})
}

func (c *ShipNotifyCodec) Decode(b []byte) (ShipNotifyMessage, error) {
	rec, err := c.enc.DecodeNative(b)
	if err != nil {
		return ShipNotifyMessage{}, err
	}

	var m ShipNotifyMessage
	if m.MessageID, err = stringField(rec, "message_id"); err != nil {
		return ShipNotifyMessage{}, err
	}
	if m.ResourceURL, err = stringField(rec, "resource_url"); err != nil {
		return ShipNotifyMessage{}, err
	}
	if m.QueuedAt, err = millisField(rec, "queued_at"); err != nil {
		return ShipNotifyMessage{}, err
	}
	if u, ok := rec["resource_type"].(map[string]interface{}); ok {
		if s, ok := u["string"].(string); ok {
			m.ResourceType = &s
		}
	}
	return m, nil
}

// CustomerNoteCodec converts CustomerNoteMessage to and from Avro binary.
type CustomerNoteCodec struct {
	enc *Encoder
}

func NewCustomerNoteCodec() (*CustomerNoteCodec, error) {
	enc, err := NewEncoder(CustomerNoteSchema)
	if err != nil {
		return nil, err
	}
	return &CustomerNoteCodec{enc: enc}, nil
}

func (c *CustomerNoteCodec) Encode(m CustomerNoteMessage) ([]byte, error) {
	return c.enc.EncodeNative(map[string]interface{}{
		"message_id":   m.MessageID,
		"order_number": m.OrderNumber,
		"queued_at":    m.QueuedAt.UnixMilli(),
	})
}

func (c *CustomerNoteCodec) Decode(b []byte) (CustomerNoteMessage, error) {
	rec, err := c.enc.DecodeNative(b)
	if err != nil {
		return CustomerNoteMessage{}, err
	}

	var m CustomerNoteMessage
	if m.MessageID, err = stringField(rec, "message_id"); err != nil {
		return CustomerNoteMessage{}, err
	}
	if m.OrderNumber, err = stringField(rec, "order_number"); err != nil {
		return CustomerNoteMessage{}, err
	}
	if m.QueuedAt, err = millisField(rec, "queued_at"); err != nil {
		return CustomerNoteMessage{}, err
	}
	return m, nil
}

func stringField(rec map[string]interface{}, key string) (string, error) {
	s, ok := rec[key].(string)
	if !ok {
		return "", fmt.Errorf("avro field %s is %T, want string", key, rec[key])
	}
	return s, nil
}

func millisField(rec map[string]interface{}, key string) (time.Time, error) {
	ms, ok := rec[key].(int64)
	if !ok {
		return time.Time{}, fmt.Errorf("avro field %s is %T, want long", key, rec[key])
	}
	return time.UnixMilli(ms).UTC(), nil
}
