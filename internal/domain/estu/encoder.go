// Package estu encodes shipments as Eagle ESTU order sheets: one fixed-width
// header record followed by one fixed-width detail record per line item.
package estu

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
)

const (
	// HeaderWidth is the byte length of a header record, newline excluded.
	HeaderWidth = 481
	// DetailWidth is the byte length of a detail record, newline excluded.
	DetailWidth = 481
)

// PaymentReference is the Magento payment entry an order sheet points at.
type PaymentReference struct {
	EntityID string
	Shipping string
}

func (p PaymentReference) String() string {
	return p.EntityID + ":" + p.Shipping
}

// PaymentLookup resolves the payment reference for a base order number.
type PaymentLookup interface {
	LookupPaymentReference(ctx context.Context, baseOrderNumber string) (PaymentReference, error)
}

// PaymentLookupFunc adapts a function to PaymentLookup.
type PaymentLookupFunc func(ctx context.Context, baseOrderNumber string) (PaymentReference, error)

func (f PaymentLookupFunc) LookupPaymentReference(ctx context.Context, baseOrderNumber string) (PaymentReference, error) {
	return f(ctx, baseOrderNumber)
}

// Config holds the fixed Eagle codes stamped on every header.
type Config struct {
	StoreNumber string
	CustomerID  string
	ClerkID     string
}

// DefaultConfig is the e-commerce clerk at store 1.
func DefaultConfig() Config {
	return Config{
		StoreNumber: "1",
		CustomerID:  "145050",
		ClerkID:     "EComm",
	}
}

func (c Config) validate() error {
	if len(c.StoreNumber) != 1 {
		return fmt.Errorf("store number %q must be 1 character", c.StoreNumber)
	}
	if len(c.CustomerID) != 6 {
		return fmt.Errorf("customer id %q must be 6 characters", c.CustomerID)
	}
	if len(c.ClerkID) > 10 {
		return fmt.Errorf("clerk id %q exceeds 10 characters", c.ClerkID)
	}
	return nil
}

// Encoder is safe for concurrent use; it holds no mutable state.
type Encoder struct {
	cfg      Config
	payments PaymentLookup
}

func NewEncoder(cfg Config, payments PaymentLookup) (*Encoder, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid estu config: %w", err)
	}
	if payments == nil {
		return nil, fmt.Errorf("invalid estu config: payment lookup is nil")
	}
	return &Encoder{cfg: cfg, payments: payments}, nil
}

// EncodeOrderSheet returns the header record, a newline, then the detail
// records. Nothing is returned unless every record encodes. Both records are
// rendered before the payment lookup, so a malformed shipment never surfaces
// as ErrDependencyFailure.
func (e *Encoder) EncodeOrderSheet(ctx context.Context, s *shipment.Shipment) (string, error) {
	rec, err := e.prepareHeader(s)
	if err != nil {
		return "", err
	}
	details, err := EncodeDetails(s.ShipmentItems)
	if err != nil {
		return "", err
	}
	header, err := e.completeHeader(ctx, s, rec)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(header) + 1 + len(details))
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(details)
	return b.String(), nil
}
