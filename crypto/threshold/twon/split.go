package twon

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/twon/log"
)

const (
	// DefaultSlopeBits slope is drawn uniformly from [1, 2^DefaultSlopeBits)
	DefaultSlopeBits = 256
	// DefaultXBits random x-coordinates are drawn uniformly from [1, 2^DefaultXBits)
	DefaultXBits = 64
	// MaxBits upper limit of slope and x-coordinate bits
	MaxBits = 1 << 16
)

// XMode how to choose x-coordinates of shares
type XMode string

func (m XMode) String() string {
	return string(m)
}

const (
	// XModeRandom distinct random x-coordinates
	XModeRandom XMode = "random"
	// XModeSequential x-coordinates are 1..n
	XModeSequential XMode = "sequential"
	// XModeFixed x-coordinates are given by caller
	XModeFixed XMode = "fixed"
)

type splitOption struct {
	rand      io.Reader
	slopeBits int
	slope     *big.Int
	xBits     int
	xMode     XMode
	xs        []*big.Int
}

func (o *splitOption) fillDefault() *splitOption {
	o.rand = rand.Reader
	o.slopeBits = DefaultSlopeBits
	o.xBits = DefaultXBits
	o.xMode = XModeRandom
	return o
}

func (o *splitOption) applyOpts(opts ...SplitOption) (*splitOption, error) {
	for _, f := range opts {
		if err := f(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// SplitOption options for Split
type SplitOption func(*splitOption) error

// WithRandReader set random source, default is crypto/rand.Reader.
//
// if the reader is shared by goroutines, wrap it by NewLockedReader.
func WithRandReader(r io.Reader) SplitOption {
	return func(o *splitOption) error {
		if r == nil {
			return errors.Errorf("rand reader should not be nil")
		}

		o.rand = r
		return nil
	}
}

// WithSlopeBits slope is drawn from [1, 2^bits)
func WithSlopeBits(bits int) SplitOption {
	return func(o *splitOption) error {
		if bits < 1 || bits > MaxBits {
			return errors.Errorf("slope bits should be in [1, %d], got %d", MaxBits, bits)
		}

		o.slopeBits = bits
		return nil
	}
}

// WithSlope use a fixed slope instead of a random one.
//
// only for known-answer tests, a fixed slope leaks the secret
// to anyone who knows it and holds one share.
func WithSlope(slope *big.Int) SplitOption {
	return func(o *splitOption) error {
		if slope == nil || slope.Sign() == 0 {
			return errors.Errorf("slope should not be zero")
		}

		o.slope = cloneInt(slope)
		return nil
	}
}

// WithXBits random x-coordinates are drawn from [1, 2^bits)
func WithXBits(bits int) SplitOption {
	return func(o *splitOption) error {
		if bits < 1 || bits > MaxBits {
			return errors.Errorf("x bits should be in [1, %d], got %d", MaxBits, bits)
		}

		o.xBits = bits
		return nil
	}
}

// WithSequentialX use 1..n as x-coordinates
func WithSequentialX() SplitOption {
	return WithXMode(XModeSequential)
}

// WithXMode set how to choose x-coordinates, XModeFixed requires WithXs
func WithXMode(mode XMode) SplitOption {
	return func(o *splitOption) error {
		switch mode {
		case XModeRandom, XModeSequential:
		case XModeFixed:
			if o.xs == nil {
				return errors.Errorf("x mode %q requires WithXs", mode)
			}
		default:
			return errors.Errorf("unknown x mode %q", mode)
		}

		o.xMode = mode
		return nil
	}
}

// WithXs use given x-coordinates, they must be nonzero and pairwise distinct,
// and the number of them must equal to the number of shares
func WithXs(xs ...*big.Int) SplitOption {
	return func(o *splitOption) error {
		o.xs = make([]*big.Int, len(xs))
		for i, x := range xs {
			if x == nil {
				return errors.Errorf("xs[%d] should not be nil", i)
			}

			o.xs[i] = cloneInt(x)
		}

		o.xMode = XModeFixed
		return nil
	}
}

// Splitter split secrets into shares.
//
// Splitter is goroutine-safe if its rand reader is.
type Splitter struct {
	opt    *splitOption
	logger log.Logger
}

// NewSplitter new splitter
func NewSplitter(opts ...SplitOption) (*Splitter, error) {
	opt, err := new(splitOption).fillDefault().applyOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "apply options")
	}

	return &Splitter{
		opt:    opt,
		logger: log.Shared.Named("twon"),
	}, nil
}

// Split split secret into n shares, any two of them can recover the secret.
//
// n should be at least 2.
func Split(secret *big.Int, n int, opts ...SplitOption) ([]Share, error) {
	s, err := NewSplitter(opts...)
	if err != nil {
		return nil, err
	}

	return s.Split(secret, n)
}

// Split split secret into n shares.
//
// a new line is generated for every call, and forgotten after
// the shares are evaluated.
func (s *Splitter) Split(secret *big.Int, n int) (shares []Share, err error) {
	if secret == nil {
		return nil, errors.Errorf("secret should not be nil")
	}
	if n < 2 {
		return nil, errors.Wrapf(ErrInvalidShareCount, "need at least 2 shares, got %d", n)
	}

	xs, err := s.xCoordinates(n)
	if err != nil {
		return nil, err
	}

	line, err := s.newLine(secret)
	if err != nil {
		return nil, err
	}

	shares = make([]Share, n)
	for i, x := range xs {
		shares[i] = Share{X: x, Y: line.At(x)}
	}

	s.logger.Debug("split secret",
		zap.Int("n", n),
		zap.String("x_mode", s.opt.xMode.String()),
		zap.Int("slope_bits", s.opt.slopeBits),
		zap.Bool("fixed_slope", s.opt.slope != nil))
	return shares, nil
}

func (s *Splitter) newLine(secret *big.Int) (line Line, err error) {
	line.Intercept = cloneInt(secret)
	if s.opt.slope != nil {
		line.Slope = cloneInt(s.opt.slope)
		return line, nil
	}

	if line.Slope, err = randNonzero(s.opt.rand, s.opt.slopeBits); err != nil {
		return line, errors.Wrap(err, "draw slope")
	}

	return line, nil
}

func (s *Splitter) xCoordinates(n int) ([]*big.Int, error) {
	switch s.opt.xMode {
	case XModeFixed:
		return fixedXs(s.opt.xs, n)
	case XModeSequential:
		xs := make([]*big.Int, n)
		for i := range xs {
			xs[i] = big.NewInt(int64(i + 1))
		}

		return xs, nil
	default:
		return randomXs(s.opt.rand, s.opt.xBits, n)
	}
}

func fixedXs(given []*big.Int, n int) ([]*big.Int, error) {
	if len(given) != n {
		return nil, errors.Wrapf(ErrInvalidShareCount,
			"got %d x-coordinates for %d shares", len(given), n)
	}

	seen := make(map[string]struct{}, n)
	xs := make([]*big.Int, n)
	for i, x := range given {
		if x.Sign() == 0 {
			return nil, errors.Wrapf(ErrDegenerateInput, "xs[%d] is zero, it would expose the secret", i)
		}

		k := x.Text(16)
		if _, ok := seen[k]; ok {
			return nil, errors.Wrapf(ErrDegenerateInput, "xs[%d]=%s is duplicated", i, FormatHex(x))
		}
		seen[k] = struct{}{}

		xs[i] = cloneInt(x)
	}

	return xs, nil
}

func randomXs(r io.Reader, bits, n int) ([]*big.Int, error) {
	// there are only 2^bits-1 nonzero candidates
	capacity := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	capacity.Sub(capacity, big.NewInt(1))
	if capacity.Cmp(big.NewInt(int64(n))) < 0 {
		return nil, errors.Wrapf(ErrInvalidShareCount,
			"can not draw %d distinct x-coordinates from %d bits", n, bits)
	}

	seen := make(map[string]struct{}, n)
	xs := make([]*big.Int, 0, n)
	for len(xs) < n {
		x, err := randNonzero(r, bits)
		if err != nil {
			return nil, errors.Wrap(err, "draw x-coordinate")
		}

		k := x.Text(16)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		xs = append(xs, x)
	}

	return xs, nil
}

// randNonzero uniform in [1, 2^bits)
func randNonzero(r io.Reader, bits int) (*big.Int, error) {
	bound := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	bound.Sub(bound, big.NewInt(1))

	v, err := rand.Int(r, bound)
	if err != nil {
		return nil, errors.Wrap(err, "read random")
	}

	return v.Add(v, big.NewInt(1)), nil
}
