package sharefile

import (
	"math/big"

	"github.com/Laisky/errors/v2"
)

// ErrMalformedSecret recovered value is not an encoded secret
var ErrMalformedSecret = errors.New("malformed secret")

// secretMarker prepended to the secret bytes,
// keeps empty input and leading zero bytes through the integer encoding
const secretMarker = 0x01

// EncodeSecret encode bytes as a positive big-endian integer
func EncodeSecret(content []byte) *big.Int {
	buf := make([]byte, len(content)+1)
	buf[0] = secretMarker
	copy(buf[1:], content)
	return new(big.Int).SetBytes(buf)
}

// DecodeSecret reverse EncodeSecret
func DecodeSecret(secret *big.Int) ([]byte, error) {
	if secret == nil || secret.Sign() <= 0 {
		return nil, errors.Wrap(ErrMalformedSecret, "secret should be positive")
	}

	b := secret.Bytes()
	if b[0] != secretMarker {
		return nil, errors.Wrapf(ErrMalformedSecret, "unknown marker %#x", b[0])
	}

	return b[1:], nil
}
