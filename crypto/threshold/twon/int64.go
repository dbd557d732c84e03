package twon

import (
	"math/big"

	"github.com/Laisky/errors/v2"
)

const (
	// DefaultInt64SlopeBits default slope bits for SplitInt64
	DefaultInt64SlopeBits = 16
	// DefaultInt64XBits default x-coordinate bits for SplitInt64
	DefaultInt64XBits = 16
)

// Int64Share share with fixed-width coordinates
type Int64Share struct {
	X int64
	Y int64
}

// Big convert to Share
func (s Int64Share) Big() Share {
	return NewShare(s.X, s.Y)
}

// SplitInt64 split a fixed-width secret.
//
// slope and x-coordinates default to DefaultInt64SlopeBits and
// DefaultInt64XBits, opts can override them. if any share does not
// fit in int64, ErrNumericOverflow is returned, the split is not retried.
func SplitInt64(secret int64, n int, opts ...SplitOption) ([]Int64Share, error) {
	opts = append([]SplitOption{
		WithSlopeBits(DefaultInt64SlopeBits),
		WithXBits(DefaultInt64XBits),
	}, opts...)

	shares, err := Split(big.NewInt(secret), n, opts...)
	if err != nil {
		return nil, err
	}

	ret := make([]Int64Share, len(shares))
	for i, s := range shares {
		if !s.X.IsInt64() || !s.Y.IsInt64() {
			return nil, errors.Wrapf(ErrNumericOverflow, "shares[%d] does not fit in int64", i)
		}

		ret[i] = Int64Share{X: s.X.Int64(), Y: s.Y.Int64()}
	}

	return ret, nil
}

// RecoverInt64 recover a fixed-width secret.
//
// intermediate values are computed exactly, only the result is checked.
func RecoverInt64(a, b Int64Share) (int64, error) {
	secret, err := Recover(a.Big(), b.Big())
	if err != nil {
		return 0, err
	}

	if !secret.IsInt64() {
		return 0, errors.Wrapf(ErrNumericOverflow, "secret %s does not fit in int64", FormatHex(secret))
	}

	return secret.Int64(), nil
}
