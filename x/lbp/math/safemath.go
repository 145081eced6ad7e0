package math

import (
	gomath "math"

	sdkmath "cosmossdk.io/math"
)

// All monetary quantities in the module are unsigned 64-bit. Arithmetic on
// them goes through the checked helpers below; an out-of-range result is a
// typed error, never a silent wrap or truncation.

// CheckedAdd returns a + b or ErrAdditionOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrAdditionOverflow
	}
	return sum, nil
}

// CheckedSub returns a - b or ErrSubtractionUnderflow.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrSubtractionUnderflow
	}
	return a - b, nil
}

// CheckedMul returns a * b or ErrMultiplicationOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrMultiplicationOverflow
	}
	return product, nil
}

// CheckedDiv returns a / b or ErrDivisionUnderflow for a zero divisor.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivisionUnderflow
	}
	return a / b, nil
}

// CheckedMulDiv returns floor(a * b / c) with a 128-bit intermediate, so the
// product never wraps even when a*b exceeds 64 bits.
func CheckedMulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionUnderflow
	}
	result := NewDecFromUint(a).MulInt(sdkmath.NewIntFromUint64(b)).QuoInt(sdkmath.NewIntFromUint64(c))
	return DecToUint(result)
}

// NewDecFromUint lifts a u64 amount into fixed-point decimal space.
func NewDecFromUint(v uint64) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(v))
}

// DecToUint truncates a decimal back to u64, failing ErrConversionOverflow
// when the value is negative or does not fit.
func DecToUint(d sdkmath.LegacyDec) (uint64, error) {
	if d.IsNegative() {
		return 0, ErrConversionOverflow
	}
	truncated := d.TruncateInt()
	if !truncated.IsUint64() {
		return 0, ErrConversionOverflow
	}
	return truncated.Uint64(), nil
}

// DecToUintCeil rounds a decimal up to the next integer u64. Used for
// amounts the trader pays in, so rounding always favors the pool.
func DecToUintCeil(d sdkmath.LegacyDec) (uint64, error) {
	if d.IsNegative() {
		return 0, ErrConversionOverflow
	}
	ceiled := d.Ceil().TruncateInt()
	if !ceiled.IsUint64() {
		return 0, ErrConversionOverflow
	}
	return ceiled.Uint64(), nil
}

// MaxUint64 is re-exported so callers never import math for one constant.
const MaxUint64 = gomath.MaxUint64
