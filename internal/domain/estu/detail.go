package estu

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
)

// EncodeDetails builds one newline-terminated detail record per item, in
// item order.
func EncodeDetails(items []shipment.LineItem) (string, error) {
	var b strings.Builder
	b.Grow(len(items) * (DetailWidth + 1))
	for i, item := range items {
		line, err := EncodeDetail(item)
		if err != nil {
			return "", fmt.Errorf("detail %d: %w", i+1, err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// detailRecord is the ESTU detail layout. Positions are 1-based and
// inclusive.
type detailRecord struct {
	RecordType      string `fixed:"1,1"`
	SKU             string `fixed:"2,15"`
	TransactionType string `fixed:"16,16"`
	// Blank so Eagle uses the IMU description.
	Description string `fixed:"17,48"`
	Taxable     string `fixed:"49,49"`
	// Pricing flag, manual price, estimate use code, trade discount,
	// discount percent, special order vendor, unit of measure.
	PricingFiller string `fixed:"50,65"`
	Quantity      string `fixed:"66,73"`
	UnitPrice     string `fixed:"74,81"`
	ExtendedPrice string `fixed:"82,89"`
	// Filled in by Eagle.
	UnitCost string `fixed:"90,97"`
	Trailing string `fixed:"98,481"`
}

// EncodeDetail builds the detail record for a single item, without the
// trailing newline.
func EncodeDetail(item shipment.LineItem) (string, error) {
	qty := decimal.NewFromInt(int64(item.Quantity))

	var c columns
	rec := detailRecord{
		RecordType:      "D",
		SKU:             c.text("sku", item.SKU, 14),
		TransactionType: Spaces(1),
		Description:     Spaces(32),
		Taxable:         "Y",
		PricingFiller:   Spaces(16),
		Quantity:        c.number("quantity", qty, 5, 3, false),
		UnitPrice:       c.number("unit_price", item.UnitPrice, 5, 3, false),
		ExtendedPrice:   c.number("extended_price", qty.Mul(item.UnitPrice), 6, 2, false),
		UnitCost:        Spaces(8),
		Trailing:        Spaces(384),
	}
	if c.err != nil {
		return "", c.err
	}
	return marshalRecord("detail", rec, DetailWidth)
}
