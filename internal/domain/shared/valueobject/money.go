package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code. Billing is INR-only today; USD exists
// for imported price references and to keep the mixed-currency guards
// honest.
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"

	DefaultCurrency = INR
)

// Money pairs a decimal amount with a currency. Amounts are kept at
// full precision; rounding to paise happens only at presentation and
// invoice-total boundaries.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, fmt.Errorf("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyINR wraps an already-validated decimal amount in rupees.
// This is the constructor the pricing pipeline uses.
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

func NewMoneyINRFromFloat(amount float64) Money {
	return NewMoneyINR(decimal.NewFromFloat(amount))
}

// NewMoneyINRFromString parses a rupee amount from its decimal string
// form, as read from CSV imports or API payloads.
func NewMoneyINRFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoneyINR(d), nil
}

func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func ZeroINR() Money {
	return Zero(INR)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// sameCurrency guards every binary operation. Arithmetic across
// currencies is always a bug upstream, never a conversion request.
func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MustAdd panics on currency mismatch. For totals built from line
// amounts that are INR by construction.
func (m Money) MustAdd(other Money) Money {
	sum, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return sum
}

func (m Money) MustSubtract(other Money) Money {
	diff, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return diff
}

func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, fmt.Errorf("division by zero")
	}
	return Money{amount: m.amount.Div(divisor), currency: m.currency}, nil
}

// Halve splits an amount in two, for the CGST/SGST division of an
// intra-state GST total. The halves sum back to the original because
// precision is kept until RoundPaise.
func (m Money) Halve() Money {
	return Money{amount: m.amount.Div(decimal.NewFromInt(2)), currency: m.currency}
}

func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// RoundPaise rounds to two decimal places, the smallest INR unit.
func (m Money) RoundPaise() Money {
	return m.Round(2)
}

// CalculatePercentage returns percent% of the amount, e.g. a 2%
// wastage charge on the gold value.
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return m.Multiply(percent.Div(decimal.NewFromInt(100)))
}

// ApplyDiscount reduces the amount by percent%.
func (m Money) ApplyDiscount(percent decimal.Decimal) Money {
	discount := m.CalculatePercentage(percent)
	return Money{amount: m.amount.Sub(discount.amount), currency: m.currency}
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// compare returns the decimal comparison after the currency guard.
func (m Money) compare(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.compare(other)
	return c < 0, err
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.compare(other)
	return c > 0, err
}

// WithinTolerance reports whether the two amounts differ by at most
// tolerance. Reconciliation uses this for the paise-level variance
// allowed between a book invoice and its portal counterpart.
func (m Money) WithinTolerance(other Money, tolerance decimal.Decimal) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.Sub(other.amount).Abs().LessThanOrEqual(tolerance), nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// StringFixed renders the bare amount with a fixed number of decimal
// places, without the currency suffix.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", raw.Amount, err)
	}
	m.amount = amount
	m.currency = raw.Currency
	return nil
}

// Value stores only the amount; money columns are NUMERIC and the
// currency is implied by the schema (everything persisted is INR).
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	if value == nil {
		*m = ZeroINR()
		return nil
	}

	var amount decimal.Decimal
	var err error
	switch v := value.(type) {
	case string:
		amount, err = decimal.NewFromString(v)
	case []byte:
		amount, err = decimal.NewFromString(string(v))
	case float64:
		amount = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	if err != nil {
		return fmt.Errorf("cannot scan %v into Money: %w", value, err)
	}

	*m = Money{amount: amount, currency: DefaultCurrency}
	return nil
}
