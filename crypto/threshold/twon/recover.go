package twon

import (
	"math/big"

	"github.com/Laisky/errors/v2"
)

// Recover recover the secret from two shares of the same split.
//
// the order of a and b does not matter. shares with the same x-coordinate
// return ErrDegenerateInput, shares that do not lie on one integer line
// return ErrPrecisionLoss.
func Recover(a, b Share) (*big.Int, error) {
	if err := checkPair(a, b); err != nil {
		return nil, err
	}

	// secret = (a.y*b.x - b.y*a.x) / (b.x - a.x)
	dx := new(big.Int).Sub(b.X, a.X)
	num := new(big.Int).Mul(a.Y, b.X)
	num.Sub(num, new(big.Int).Mul(b.Y, a.X))

	secret, rem := new(big.Int).QuoRem(num, dx, new(big.Int))
	if rem.Sign() != 0 {
		return nil, errors.Wrapf(ErrPrecisionLoss,
			"intercept of line through %s and %s is not an integer", a, b)
	}

	return secret, nil
}

// RecoverLine recover the whole line from two shares
func RecoverLine(a, b Share) (line Line, err error) {
	if err = checkPair(a, b); err != nil {
		return line, err
	}

	dx := new(big.Int).Sub(b.X, a.X)
	dy := new(big.Int).Sub(b.Y, a.Y)
	slope, rem := new(big.Int).QuoRem(dy, dx, new(big.Int))
	if rem.Sign() != 0 {
		return line, errors.Wrapf(ErrPrecisionLoss,
			"slope of line through %s and %s is not an integer", a, b)
	}

	intercept := new(big.Int).Mul(slope, a.X)
	intercept.Sub(a.Y, intercept)
	return Line{Slope: slope, Intercept: intercept}, nil
}

// RecoverAll recover the secret from the first two distinct shares,
// and check that every other share lies on the same line.
//
// identical duplicated shares are allowed.
func RecoverAll(shares []Share) (*big.Int, error) {
	if len(shares) < 2 {
		return nil, errors.Wrapf(ErrInvalidShareCount, "need at least 2 shares, got %d", len(shares))
	}
	for i, s := range shares {
		if !s.valid() {
			return nil, errors.Wrapf(ErrDegenerateInput, "shares[%d] has nil coordinate", i)
		}
	}

	a := shares[0]
	bi := -1
	for i := 1; i < len(shares); i++ {
		if shares[i].X.Cmp(a.X) != 0 {
			bi = i
			break
		}
	}

	for i, s := range shares[1:] {
		if bi == -1 {
			if !s.Equal(a) {
				return nil, errors.Wrapf(ErrInconsistentShares,
					"shares[%d]=%s conflicts with shares[0]=%s", i+1, s, a)
			}

			continue
		}

		if !collinear(a, shares[bi], s) {
			return nil, errors.Wrapf(ErrInconsistentShares,
				"shares[%d]=%s is not on the line", i+1, s)
		}
	}

	if bi == -1 {
		return nil, errors.Wrapf(ErrDegenerateInput, "all %d shares have the same x-coordinate", len(shares))
	}

	return Recover(a, shares[bi])
}

func checkPair(a, b Share) error {
	if !a.valid() || !b.valid() {
		return errors.Wrap(ErrDegenerateInput, "share has nil coordinate")
	}
	if a.X.Cmp(b.X) == 0 {
		return errors.Wrapf(ErrDegenerateInput,
			"both shares have x-coordinate %s", FormatHex(a.X))
	}

	return nil
}

// collinear whether c lies on the line through a and b,
// compared by cross multiplication so it stays exact
func collinear(a, b, c Share) bool {
	lhs := new(big.Int).Sub(c.Y, a.Y)
	lhs.Mul(lhs, new(big.Int).Sub(b.X, a.X))
	rhs := new(big.Int).Sub(b.Y, a.Y)
	rhs.Mul(rhs, new(big.Int).Sub(c.X, a.X))
	return lhs.Cmp(rhs) == 0
}
