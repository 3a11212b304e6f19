package sheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSheetExists is returned when a sheet with the same name was already
// stored in the day's container. Sheets are never overwritten.
var ErrSheetExists = errors.New("order sheet already exists")

var ErrEmptyBody = errors.New("order sheet body is empty")

// OrderSheet is an encoded ESTU document addressed by container and name.
type OrderSheet struct {
	ID        string
	Container string
	Name      string
	OrderID   int64
	OrderKey  string
	Body      string
	CreatedAt time.Time
}

// ContainerFor groups sheets by the day they were produced, eagle-MM-DD-YYYY.
func ContainerFor(day time.Time) string {
	return "eagle-" + day.Format("01-02-2006")
}

// NameFor is the file name Eagle picks up for an order.
func NameFor(orderID int64) string {
	return fmt.Sprintf("EagleOrder_M%dO.txt", orderID)
}

func NewOrderSheet(orderID int64, orderKey, body string, now time.Time) (*OrderSheet, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}
	now = now.UTC()
	return &OrderSheet{
		ID:        uuid.NewString(),
		Container: ContainerFor(now),
		Name:      NameFor(orderID),
		OrderID:   orderID,
		OrderKey:  orderKey,
		Body:      body,
		CreatedAt: now,
	}, nil
}
