package twon

import "github.com/Laisky/errors/v2"

var (
	// ErrInvalidShareCount fewer than two shares, or more shares than
	// the x-coordinate range can hold
	ErrInvalidShareCount = errors.New("invalid share count")
	// ErrDegenerateInput shares can not determine a unique line,
	// like two shares with the same x-coordinate
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrNumericOverflow value does not fit in the fixed-width representation
	ErrNumericOverflow = errors.New("numeric overflow")
	// ErrPrecisionLoss division is not exact
	ErrPrecisionLoss = errors.New("precision loss")
	// ErrInconsistentShares shares do not lie on one line
	ErrInconsistentShares = errors.New("inconsistent shares")
)
