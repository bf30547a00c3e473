// Package money implements the fixed-point decimal amounts stored on budgets.
//
// Amounts are kept as int64 cents so that arithmetic and comparisons are exact.
// On the wire they are rendered as strings with exactly two decimal places
// ("5000.00"), and in the database they map onto a NUMERIC(10,2) column.
package money

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents.
type Amount int64

// Max is the largest amount a NUMERIC(10,2) column can hold (999,999,999.99).
const Max Amount = 99_999_999_999

// maxIntDigits bounds the integer part so that the cents value fits an int64.
const maxIntDigits = 15

var (
	ErrInvalid         = errors.New("invalid decimal number")
	ErrTooManyDecimals = errors.New("more than 2 decimal places")
	ErrOutOfRange      = errors.New("amount out of range")
)

// Parse converts a decimal string such as "5000", "5000.5" or "-12.34" to an
// Amount. Thousands separators, exponents and more than two fractional digits
// are rejected; there is no rounding.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalid
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalid
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, ErrInvalid
	}
	if len(fracPart) > 2 {
		return 0, ErrTooManyDecimals
	}
	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) > maxIntDigits {
		return 0, ErrOutOfRange
	}
	var units int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, ErrOutOfRange
		}
		units = v
	}
	var cents int64
	switch len(fracPart) {
	case 1:
		cents = int64(fracPart[0]-'0') * 10
	case 2:
		cents = int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Amount(total), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the amount with two decimal places.
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Cents returns the raw value in cents.
func (a Amount) Cents() int64 { return int64(a) }

// MarshalJSON encodes the amount as a JSON string, e.g. "5000.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string ("12.50") or a JSON number (12.5).
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrInvalid
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalid
		}
	} else {
		s = string(data)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value implements driver.Valuer. The decimal string keeps NUMERIC columns exact.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner for the representations drivers hand back for
// NUMERIC columns: text from Postgres, integer or real from SQLite.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
		return nil
	case int64:
		*a = Amount(v * 100)
		return nil
	case float64:
		*a = Amount(math.Round(v * 100))
		return nil
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
}

func (a *Amount) scanString(s string) error {
	v, err := Parse(s)
	if err != nil {
		return fmt.Errorf("money: scan %q: %w", s, err)
	}
	*a = v
	return nil
}
