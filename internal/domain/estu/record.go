package estu

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ianlopshire/go-fixedwidth"
	"github.com/shopspring/decimal"
)

// columns renders values to their exact column width before a record is laid
// out. fixedwidth truncates or pads anything that does not fit, so every
// width check happens here. The first failing column sticks and later calls
// return "".
type columns struct {
	err error
}

func (c *columns) text(field, s string, width int) string {
	if c.err != nil {
		return ""
	}
	padded, err := PadRight(s, width)
	if err != nil {
		c.fail(field, err)
		return ""
	}
	return padded
}

func (c *columns) number(field string, v decimal.Decimal, integerDigits, fracDigits int, signed bool) string {
	if c.err != nil {
		return ""
	}
	s, err := Normalize(v, integerDigits, fracDigits, signed)
	if err != nil {
		c.fail(field, err)
		return ""
	}
	return s
}

func (c *columns) fail(field string, err error) {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Field == "" {
		fe.Field = field
	}
	c.err = err
}

// marshalRecord lays out a tagged record struct and checks the result has the
// layout's exact width.
func marshalRecord(kind string, rec any, width int) (string, error) {
	b, err := fixedwidth.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal estu %s record: %w", kind, err)
	}
	b = bytes.TrimSuffix(b, []byte("\n"))
	if len(b) != width {
		return "", fmt.Errorf("estu %s record is %d bytes, layout is %d", kind, len(b), width)
	}
	return string(b), nil
}
