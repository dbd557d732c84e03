package twon

import (
	"fmt"
	"math/big"
)

// Share one point on the secret line
type Share struct {
	X *big.Int
	Y *big.Int
}

// NewShare create share from int64 coordinates
func NewShare(x, y int64) Share {
	return Share{X: big.NewInt(x), Y: big.NewInt(y)}
}

// Clone deep copy, the returned share shares no memory with s
func (s Share) Clone() Share {
	return Share{X: cloneInt(s.X), Y: cloneInt(s.Y)}
}

// Equal whether both coordinates are equal
func (s Share) Equal(other Share) bool {
	if s.X == nil || s.Y == nil || other.X == nil || other.Y == nil {
		return false
	}

	return s.X.Cmp(other.X) == 0 && s.Y.Cmp(other.Y) == 0
}

// String print share as hex pair, like `(0x1, 0x31)`
func (s Share) String() string {
	return fmt.Sprintf("(%s, %s)", FormatHex(s.X), FormatHex(s.Y))
}

func (s Share) valid() bool {
	return s.X != nil && s.Y != nil
}

// Line y = Slope*x + Intercept
//
// the intercept is the secret, so a line should never be persisted.
type Line struct {
	Slope     *big.Int
	Intercept *big.Int
}

// At evaluate the line at x
func (l Line) At(x *big.Int) *big.Int {
	y := new(big.Int).Mul(l.Slope, x)
	return y.Add(y, l.Intercept)
}

// Contains whether share lies on the line
func (l Line) Contains(s Share) bool {
	if !s.valid() {
		return false
	}

	return l.At(s.X).Cmp(s.Y) == 0
}

// FormatHex format v as `0x..`, negative as `-0x..`
func FormatHex(v *big.Int) string {
	if v == nil {
		return "<nil>"
	}

	if v.Sign() < 0 {
		return "-0x" + new(big.Int).Abs(v).Text(16)
	}

	return "0x" + v.Text(16)
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}

	return new(big.Int).Set(v)
}
