package avro

import "time"

// ShipNotifyMessage matches ShipNotifySchema.
type ShipNotifyMessage struct {
	MessageID    string
	ResourceURL  string
	ResourceType *string
	QueuedAt     time.Time
}

// CustomerNoteMessage matches CustomerNoteSchema.
type CustomerNoteMessage struct {
	MessageID   string
	OrderNumber string
	QueuedAt    time.Time
}
