package estu

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
)

const headerDateLayout = "01022006150405"

var (
	// Order numbers shaped like A-B-C, or starting with 5, are exempt from
	// sales tax on the sheet.
	threeSegmentOrder = regexp.MustCompile(`^.+-.+-.+`)
	fiveSeriesOrder   = regexp.MustCompile(`^5.+`)

	phoneNoise = regexp.MustCompile(`\s+|-|\+\d|(?i:ext\..*)`)

	thousand = decimal.NewFromInt(1000)
)

// headerRecord is the ESTU header layout. Positions are 1-based and
// inclusive.
type headerRecord struct {
	RecordType  string `fixed:"1,1"`
	Date        string `fixed:"2,15"`
	StoreNumber string `fixed:"16,16"`
	CustomerID  string `fixed:"17,22"`
	JobNumber   string `fixed:"23,25"`
	TaxCode     string `fixed:"26,28"`
	TaxRate     string `fixed:"29,33"`
	// Pricing indicator and percentage.
	Pricing          string `fixed:"34,38"`
	ClerkID          string `fixed:"39,48"`
	CustomerPO       string `fixed:"49,60"`
	TransactionTotal string `fixed:"61,70"`
	SaleTaxable      string `fixed:"71,71"`
	Salesperson      string `fixed:"72,73"`
	SalesTaxTotal    string `fixed:"74,83"`
	Filler           string `fixed:"84,93"`
	Instructions1    string `fixed:"94,123"`
	Instructions2    string `fixed:"124,153"`
	ShipToName       string `fixed:"154,183"`
	ShipToAddress1   string `fixed:"184,213"`
	ShipToAddress2   string `fixed:"214,243"`
	ShipToAddress3   string `fixed:"244,273"`
	Reference        string `fixed:"274,303"`
	Telephone        string `fixed:"304,313"`
	// Resale number, customer id and special order vendor.
	ResaleFiller string `fixed:"314,347"`
	TotalDeposit string `fixed:"348,357"`
	// Expected and expiration dates.
	ExpectedDates     string `fixed:"358,373"`
	Terminal          string `fixed:"374,376"`
	TransactionNumber string `fixed:"377,384"`
	// 1 is a cash sale.
	TransactionType  string `fixed:"385,385"`
	CashTendered     string `fixed:"386,395"`
	ChargeTendered   string `fixed:"396,405"`
	ChangeGiven      string `fixed:"406,415"`
	CheckTendered    string `fixed:"416,425"`
	CheckNumber      string `fixed:"426,431"`
	BankcardTendered string `fixed:"432,441"`
	BankcardNumber   string `fixed:"442,457"`
	// Apply-to number and third party vendor code.
	ApplyTo  string `fixed:"458,465"`
	EstuCost string `fixed:"466,466"`
	// Private label card type, special processing, promo type, TDX.
	PrivateLabel string `fixed:"467,474"`
	DirectShip   string `fixed:"475,475"`
	Trailing     string `fixed:"476,481"`
}

// EncodeHeader builds the header record. The payment reference is looked up
// only after every other column has been rendered.
func (e *Encoder) EncodeHeader(ctx context.Context, s *shipment.Shipment) (string, error) {
	rec, err := e.prepareHeader(s)
	if err != nil {
		return "", err
	}
	return e.completeHeader(ctx, s, rec)
}

// prepareHeader renders every header column except the payment reference.
func (e *Encoder) prepareHeader(s *shipment.Shipment) (*headerRecord, error) {
	if err := validateShipment(s); err != nil {
		return nil, err
	}

	created, err := parseCreateDate(s.CreateDate)
	if err != nil {
		return nil, err
	}

	first := s.ShipmentItems[0]
	rate, err := taxRate(first)
	if err != nil {
		return nil, err
	}

	var subtotal, taxTotal decimal.Decimal
	for _, item := range s.ShipmentItems {
		subtotal = subtotal.Add(item.UnitPrice)
		taxTotal = taxTotal.Add(item.Tax())
	}

	var c columns
	salesTax := ZeroAmount(9)
	if !taxExempt(s.OrderNumber) {
		v, err := checkedDiv("sales_tax_total", thousand.Mul(taxTotal), subtotal.Add(s.ShipmentCost))
		if err != nil {
			return nil, err
		}
		salesTax = c.number("sales_tax_total", v, 7, 2, true)
	}

	to := s.ShipTo
	street2 := ""
	if to.Street2 != nil {
		street2 = *to.Street2
	}

	rec := &headerRecord{
		RecordType:  "H",
		Date:        created.Format(headerDateLayout),
		StoreNumber: e.cfg.StoreNumber,
		CustomerID:  e.cfg.CustomerID,
		JobNumber:   Zeros(3),
		TaxCode:     Spaces(3),
		TaxRate:     c.number("tax_rate", rate, 0, 5, false),
		Pricing:     "R0000",
		ClerkID:     c.text("clerk_id", e.cfg.ClerkID, 10),
		CustomerPO:  Spaces(12),
		// Eagle recomputes the transaction total.
		TransactionTotal:  ZeroAmount(9),
		SaleTaxable:       "Y",
		Salesperson:       Spaces(2),
		SalesTaxTotal:     salesTax,
		Filler:            Spaces(10),
		Instructions2:     c.text("instructions_2", s.OrderNumber, 30),
		ShipToName:        c.text("ship_to_name", to.Name, 30),
		ShipToAddress1:    c.text("ship_to_address_1", to.Street1, 30),
		ShipToAddress2:    c.text("ship_to_address_2", street2, 30),
		ShipToAddress3:    c.text("ship_to_address_3", to.City+" "+to.State+" "+to.PostalCode, 30),
		Reference:         Spaces(30),
		Telephone:         c.text("telephone", NormalizePhone(to.Phone), 10),
		ResaleFiller:      Spaces(34),
		TotalDeposit:      c.number("total_deposit", subtotal, 7, 2, true),
		ExpectedDates:     Zeros(16),
		Terminal:          Zeros(3),
		TransactionNumber: Zeros(8),
		TransactionType:   "1",
		CashTendered:      ZeroAmount(9),
		ChargeTendered:    ZeroAmount(9),
		ChangeGiven:       ZeroAmount(9),
		CheckTendered:     ZeroAmount(9),
		CheckNumber:       Zeros(6),
		BankcardTendered:  c.number("bankcard_tendered", subtotal, 7, 2, true),
		BankcardNumber:    Spaces(16),
		ApplyTo:           Spaces(8),
		EstuCost:          "N",
		PrivateLabel:      Spaces(8),
		DirectShip:        "N",
		Trailing:          Spaces(6),
	}
	if c.err != nil {
		return nil, c.err
	}
	return rec, nil
}

// completeHeader fetches the payment reference into a prepared header and
// lays the record out.
func (e *Encoder) completeHeader(ctx context.Context, s *shipment.Shipment, rec *headerRecord) (string, error) {
	base := BaseOrderNumber(s.OrderNumber)
	ref, err := e.payments.LookupPaymentReference(ctx, base)
	if err != nil {
		return "", fmt.Errorf("%w: payment reference for %q: %w", ErrDependencyFailure, base, err)
	}

	var c columns
	rec.Instructions1 = c.text("instructions_1", ref.String(), 30)
	if c.err != nil {
		return "", c.err
	}
	return marshalRecord("header", *rec, HeaderWidth)
}

func validateShipment(s *shipment.Shipment) error {
	switch {
	case s == nil:
		return &FieldError{Field: "shipment", Kind: ErrMalformedInput, Detail: "nil shipment"}
	case len(s.ShipmentItems) == 0:
		return &FieldError{Field: "shipment_items", Kind: ErrMalformedInput, Detail: "no line items"}
	case s.OrderNumber == "":
		return &FieldError{Field: "order_number", Kind: ErrMalformedInput, Detail: "missing"}
	case s.CreateDate == "":
		return &FieldError{Field: "create_date", Kind: ErrMalformedInput, Detail: "missing"}
	case s.ShipTo.Name == "":
		return &FieldError{Field: "ship_to_name", Kind: ErrMalformedInput, Detail: "missing"}
	case s.ShipTo.Street1 == "":
		return &FieldError{Field: "ship_to_address_1", Kind: ErrMalformedInput, Detail: "missing"}
	}
	return nil
}

// parseCreateDate drops a trailing zone letter and reads the wall-clock time.
func parseCreateDate(raw string) (time.Time, error) {
	v := raw
	if n := len(v); n > 0 && isZoneLetter(v[n-1]) {
		v = v[:n-1]
	}
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fieldErr("create_date", ErrMalformedInput, "unparseable timestamp %q", raw)
}

func isZoneLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// taxRate is the first line's tax per unit divided by its unit price.
func taxRate(item shipment.LineItem) (decimal.Decimal, error) {
	if item.Quantity == 0 {
		return decimal.Zero, fieldErr("tax_rate", ErrDegenerateArithmetic, "first item %q has zero quantity", item.SKU)
	}
	perUnit := item.Tax().Div(decimal.NewFromInt(int64(item.Quantity)))
	return checkedDiv("tax_rate", perUnit, item.UnitPrice)
}

func checkedDiv(field string, numerator, denominator decimal.Decimal) (decimal.Decimal, error) {
	if denominator.IsZero() {
		return decimal.Zero, fieldErr(field, ErrDegenerateArithmetic, "division by zero")
	}
	return numerator.Div(denominator), nil
}

func taxExempt(orderNumber string) bool {
	return threeSegmentOrder.MatchString(orderNumber) || fiveSeriesOrder.MatchString(orderNumber)
}

// BaseOrderNumber is the order number up to its first underscore.
func BaseOrderNumber(orderNumber string) string {
	base, _, _ := strings.Cut(orderNumber, "_")
	return base
}

// NormalizePhone strips separators, a leading country code and any
// extension, keeping the last 10 characters.
func NormalizePhone(phone string) string {
	digits := phoneNoise.ReplaceAllString(phone, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}
