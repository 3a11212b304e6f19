package estu

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize renders value as an implied-decimal field of the form
// 9(integerDigits)v9(fracDigits), with a trailing sign when signed is set.
//
// For a value of 112.40:
//
//	Normalize(v, 4, 3, false) == "0112400"
//	Normalize(v, 4, 3, true)  == "0112400+"
//	Normalize(v, 5, 3, false) == "00112400"
//
// The scaled value is truncated toward zero, never rounded. A magnitude that
// needs more than integerDigits+fracDigits digits, or a negative value in an
// unsigned column, is reported as ErrFieldOverflow.
func Normalize(value decimal.Decimal, integerDigits, fracDigits int, signed bool) (string, error) {
	if integerDigits < 0 || fracDigits < 0 {
		return "", &FieldError{Kind: ErrMalformedInput, Detail: "negative digit count"}
	}

	width := integerDigits + fracDigits
	digits := value.Shift(int32(fracDigits)).Truncate(0).Abs().BigInt().String()
	if len(digits) > width {
		return "", &FieldError{
			Kind:   ErrFieldOverflow,
			Detail: fmt.Sprintf("%s needs %d digits, column holds %d", value.String(), len(digits), width),
		}
	}
	if !signed && value.IsNegative() && digits != "0" {
		return "", &FieldError{
			Kind:   ErrFieldOverflow,
			Detail: fmt.Sprintf("%s is negative, column is unsigned", value.String()),
		}
	}

	var b strings.Builder
	b.Grow(width + 1)
	b.WriteString(strings.Repeat("0", width-len(digits)))
	b.WriteString(digits)
	if signed {
		if value.IsNegative() {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
	}
	return b.String(), nil
}

// PadRight left-justifies text in a space-filled column of width bytes.
// Text wider than the column is reported as ErrFieldOverflow instead of
// spilling into the next column.
func PadRight(text string, width int) (string, error) {
	if len(text) > width {
		return "", &FieldError{
			Kind:   ErrFieldOverflow,
			Detail: fmt.Sprintf("%q is %d bytes, column holds %d", text, len(text), width),
		}
	}
	return text + strings.Repeat(" ", width-len(text)), nil
}

// Zeros is an unsigned all-zero numeric column.
func Zeros(width int) string {
	return strings.Repeat("0", width)
}

// ZeroAmount is a signed all-zero numeric column, e.g. 9(7)v9(2)+.
func ZeroAmount(digits int) string {
	return Zeros(digits) + "+"
}

// Spaces is a blank filler column.
func Spaces(width int) string {
	return strings.Repeat(" ", width)
}
