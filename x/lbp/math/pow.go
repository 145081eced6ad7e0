package math

import (
	sdkmath "cosmossdk.io/math"
)

var (
	one = sdkmath.LegacyOneDec()

	// powPrecision bounds the residual term of the fractional-power series.
	powPrecision = sdkmath.LegacyMustNewDecFromStr("0.00000001")

	// maxPowBase and maxPowExponent bound the inputs of DecPow. Bases at or
	// above 2 make the binomial series diverge; exponents this large only
	// arise from corrupted weights.
	maxPowBase     = sdkmath.LegacyNewDec(2)
	maxPowExponent = sdkmath.LegacyNewDec(1 << 20)

	// maxPowResult caps the magnitude of base^exp. Quotes scale the power
	// term by a uint64 balance, so anything past 10^20 already exceeds what
	// DecToUint can return; failing here keeps the squaring loop clear of
	// LegacyDec's panic range.
	maxPowResult = sdkmath.LegacyMustNewDecFromStr("100000000000000000000")

	maxPowIterations = 300
)

// DecPow computes base^exp for a positive base below 2 and a non-negative
// exponent. The integer part of the exponent is resolved by repeated
// squaring, the fractional part by a binomial series truncated at
// powPrecision. Inputs outside the safe ranges fail ErrExponentiationOverflow
// instead of returning an imprecise result.
func DecPow(base, exp sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	if !base.IsPositive() || base.GTE(maxPowBase) {
		return sdkmath.LegacyDec{}, ErrExponentiationOverflow
	}
	if exp.IsNegative() || exp.GT(maxPowExponent) {
		return sdkmath.LegacyDec{}, ErrExponentiationOverflow
	}
	if base.Equal(one) || exp.IsZero() {
		if exp.IsZero() {
			return one, nil
		}
		return base, nil
	}

	integer := exp.TruncateDec()
	fractional := exp.Sub(integer)

	result, err := integerPow(base, integer.TruncateInt().Uint64())
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	if fractional.IsZero() {
		return result, nil
	}

	fracPow, err := powApprox(base, fractional)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return result.Mul(fracPow), nil
}

// integerPow resolves base^n by repeated squaring, failing once either the
// running result or a pending square passes maxPowResult. A base below one
// only shrinks, so the checks trip exclusively on growing bases.
func integerPow(base sdkmath.LegacyDec, n uint64) (sdkmath.LegacyDec, error) {
	result := sdkmath.LegacyOneDec()
	sq := base
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			result = result.Mul(sq)
			if result.GT(maxPowResult) {
				return sdkmath.LegacyDec{}, ErrExponentiationOverflow
			}
		}
		// n > 1 means a higher bit is still set, so sq feeds the result
		if n > 1 {
			sq = sq.Mul(sq)
			if sq.GT(maxPowResult) {
				return sdkmath.LegacyDec{}, ErrExponentiationOverflow
			}
		}
	}
	return result, nil
}

// powApprox evaluates base^exp for 0 < exp < 1 via the binomial expansion of
// (1 + x)^exp with x = base - 1. Terms alternate in sign when x is negative;
// the running positive and negative sums are kept separate so intermediate
// cancellation cannot lose precision.
func powApprox(base, exp sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	x, xNeg := absDifferenceWithSign(base, one)
	term := sdkmath.LegacyOneDec()
	sum := sdkmath.LegacyOneDec()
	negative := false

	for i := 1; term.GTE(powPrecision); i++ {
		if i > maxPowIterations {
			return sdkmath.LegacyDec{}, ErrExponentiationOverflow
		}
		bigK := sdkmath.LegacyNewDec(int64(i))
		c, cNeg := absDifferenceWithSign(exp, bigK.Sub(one))
		term = term.Mul(c.Mul(x)).Quo(bigK)
		if term.IsZero() {
			break
		}
		if xNeg {
			negative = !negative
		}
		if cNeg {
			negative = !negative
		}
		if negative {
			sum = sum.Sub(term)
		} else {
			sum = sum.Add(term)
		}
	}

	if !sum.IsPositive() {
		return sdkmath.LegacyDec{}, ErrExponentiationOverflow
	}
	return sum, nil
}

// absDifferenceWithSign returns |a - b| and whether a < b.
func absDifferenceWithSign(a, b sdkmath.LegacyDec) (sdkmath.LegacyDec, bool) {
	if a.GTE(b) {
		return a.Sub(b), false
	}
	return b.Sub(a), true
}
