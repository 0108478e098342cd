package asset

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the base-unit precision the protocol quotes in. Pool
// depths and quote outputs are always 1e-8 units regardless of the asset's
// native precision.
const DefaultDecimals int32 = 8

// FixedAmount is an integer count of base units plus the number of decimal
// places one display unit spans. Base and display are distinct views; nothing
// converts between them implicitly.
type FixedAmount struct {
	base     decimal.Decimal
	decimals int32
}

// NewFixedAmount builds an amount from an integer base-unit count.
func NewFixedAmount(baseUnits int64, decimals int32) FixedAmount {
	return FixedAmount{base: decimal.NewFromInt(baseUnits), decimals: decimals}
}

// FromBase builds an amount from a base-unit decimal. Fractional base units
// are truncated; the smallest unit is indivisible.
func FromBase(base decimal.Decimal, decimals int32) FixedAmount {
	return FixedAmount{base: base.Truncate(0), decimals: decimals}
}

// FromDisplay builds an amount from a display-unit decimal, e.g. 1.5 BTC with
// 8 decimals becomes 150000000 base units.
func FromDisplay(display decimal.Decimal, decimals int32) FixedAmount {
	return FixedAmount{base: display.Shift(decimals).Truncate(0), decimals: decimals}
}

// Base returns the integer base-unit view.
func (f FixedAmount) Base() decimal.Decimal { return f.base }

// Display returns the human view, base shifted down by the decimal count.
func (f FixedAmount) Display() decimal.Decimal { return f.base.Shift(-f.decimals) }

// Decimals returns the decimal-place count of one display unit.
func (f FixedAmount) Decimals() int32 { return f.decimals }

// Rebase re-expresses the same display value with a different decimal count.
func (f FixedAmount) Rebase(decimals int32) FixedAmount {
	if decimals == f.decimals {
		return f
	}
	return FromDisplay(f.Display(), decimals)
}

func (f FixedAmount) IsZero() bool     { return f.base.IsZero() }
func (f FixedAmount) IsPositive() bool { return f.base.IsPositive() }

// CryptoAmount binds a FixedAmount to the asset it denominates. All binary
// operations require both operands to share the asset; mixing assets is a
// programming fault and panics.
type CryptoAmount struct {
	Amount FixedAmount
	Asset  Asset
}

// NewCryptoAmount builds an amount in base units of the given asset.
func NewCryptoAmount(baseUnits int64, a Asset) CryptoAmount {
	return CryptoAmount{Amount: NewFixedAmount(baseUnits, DefaultDecimals), Asset: a}
}

// NewCryptoAmountFromBase wraps a base-unit decimal for the given asset.
func NewCryptoAmountFromBase(base decimal.Decimal, a Asset) CryptoAmount {
	return CryptoAmount{Amount: FromBase(base, DefaultDecimals), Asset: a}
}

func (c CryptoAmount) mustMatch(other CryptoAmount, op string) {
	if !c.Asset.Equals(other.Asset) {
		panic(fmt.Sprintf("cannot %s %s and %s: asset mismatch", op, c.Asset, other.Asset))
	}
}

// BaseAmount returns the base-unit view of the bound amount.
func (c CryptoAmount) BaseAmount() decimal.Decimal { return c.Amount.Base() }

// DisplayAmount returns the display view of the bound amount.
func (c CryptoAmount) DisplayAmount() decimal.Decimal { return c.Amount.Display() }

func (c CryptoAmount) Add(other CryptoAmount) CryptoAmount {
	c.mustMatch(other, "add")
	return CryptoAmount{Amount: FromBase(c.Amount.base.Add(other.Amount.base), c.Amount.decimals), Asset: c.Asset}
}

func (c CryptoAmount) Sub(other CryptoAmount) CryptoAmount {
	c.mustMatch(other, "subtract")
	return CryptoAmount{Amount: FromBase(c.Amount.base.Sub(other.Amount.base), c.Amount.decimals), Asset: c.Asset}
}

// MulScalar scales the amount by a dimensionless factor.
func (c CryptoAmount) MulScalar(factor decimal.Decimal) CryptoAmount {
	return CryptoAmount{Amount: FromBase(c.Amount.base.Mul(factor), c.Amount.decimals), Asset: c.Asset}
}

// DivScalar divides the amount by a dimensionless factor.
func (c CryptoAmount) DivScalar(divisor decimal.Decimal) CryptoAmount {
	return CryptoAmount{Amount: FromBase(c.Amount.base.Div(divisor), c.Amount.decimals), Asset: c.Asset}
}

// Cmp compares two amounts of the same asset: -1, 0 or 1.
func (c CryptoAmount) Cmp(other CryptoAmount) int {
	c.mustMatch(other, "compare")
	return c.Amount.base.Cmp(other.Amount.base)
}

func (c CryptoAmount) IsZero() bool     { return c.Amount.IsZero() }
func (c CryptoAmount) IsPositive() bool { return c.Amount.IsPositive() }

func (c CryptoAmount) String() string {
	return fmt.Sprintf("%s %s", c.Amount.Display(), c.Asset)
}
