// Package money implements exact fixed-point decimal arithmetic at the
// 8-fractional-digit precision shared by the Bitcoin-derivative family of
// chains this ledger settles against.
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/blockvault/ledgerd/btcutil/er"
)

// Scale is the number of fractional digits every amount is carried at,
// matching Satoshi precision.
const Scale = 8

// ErrorType carries the failure modes of parsing and scanning Money values.
var ErrorType = er.NewErrorType("money.ErrorType")

var ErrInvalidAmount = ErrorType.Code("ErrInvalidAmount")

// Money is an exact, scale-8 fixed-point decimal amount. The zero value is 0.
type Money struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{d: decimal.Zero}

// New builds a Money from an integer number of whole units and a count of
// Scale-digit fractional sub-units, e.g. New(1, 50000000) == 1.5.
func New(whole int64, frac int64) Money {
	return Money{d: decimal.New(whole, 0).Add(decimal.New(frac, -Scale))}
}

// NewFromFloat builds a Money from a float64, rounding to Scale digits.
// Only used at the RPC boundary, where the node returns JSON numbers.
func NewFromFloat(f float64) Money {
	return Money{d: decimal.NewFromFloat(f).Round(Scale)}
}

// Parse parses a decimal string such as "1.50000000" or "-0.00000001".
func Parse(s string) (Money, er.R) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount.New(fmt.Sprintf("%q: %s", s, err), nil)
	}
	return Money{d: d.Round(Scale)}, nil
}

// MustParse is Parse but panics on error; only used for literal constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err.String())
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money        { return Money{d: m.d.Neg()} }

// Mul multiplies by a rational factor num/den, rounding HALF_EVEN to Scale.
func (m Money) Mul(num, den int64) Money {
	return Money{d: m.d.Mul(decimal.New(num, 0)).Div(decimal.New(den, 0)).RoundBank(Scale)}
}

// Cmp returns -1, 0 or 1 as m is less than, equal to, or greater than o.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.Sign() > 0 }
func (m Money) IsNegative() bool { return m.d.Sign() < 0 }

// IsDust reports whether m is at or below the currency's dust threshold.
// Per the strict-> rule, an amount is deliverable iff amount > dust.
func (m Money) IsDust(dust Money) bool { return m.d.Cmp(dust.d) <= 0 }

// RoundHalfEven rounds to Scale digits using banker's rounding, matching the
// precision the node's sendmany RPC is fed at.
func (m Money) RoundHalfEven() Money { return Money{d: m.d.RoundBank(Scale)} }

func (m Money) String() string { return m.d.StringFixed(Scale) }

func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// Value implements driver.Valuer so Money can be written directly into a
// DECIMAL(18,8) column.
func (m Money) Value() (driver.Value, error) {
	return m.d.StringFixed(Scale), nil
}

// Scan implements sql.Scanner so Money can be read directly out of a
// DECIMAL(18,8) column.
func (m *Money) Scan(src interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	m.d = d
	return nil
}

// MarshalJSON renders the fixed 8-decimal form as a quoted JSON string.
// HTTPClient.SendMany does not use it: it sends amounts as JSON numbers.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.d.StringFixed(Scale) + `"`), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.d = d.Round(Scale)
	return nil
}
