package math

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrAdditionOverflow       = errors.Register("lbp-math", 1, "addition overflow")
	ErrSubtractionUnderflow   = errors.Register("lbp-math", 2, "subtraction underflow")
	ErrMultiplicationOverflow = errors.Register("lbp-math", 3, "multiplication overflow")
	ErrDivisionUnderflow      = errors.Register("lbp-math", 4, "division underflow")
	ErrExponentiationOverflow = errors.Register("lbp-math", 5, "exponentiation overflow")
	ErrConversionOverflow     = errors.Register("lbp-math", 6, "conversion overflow")
	ErrAmountInTooLarge       = errors.Register("lbp-math", 7, "amount in too large")
	ErrAmountOutTooLarge      = errors.Register("lbp-math", 8, "amount out too large")
)
