package twon

import (
	"io"
	"math/rand"
	"sync"
)

// lockedReader serialises reads from a reader shared by goroutines
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

// NewLockedReader wrap r so that it is safe to share between goroutines.
//
// crypto/rand.Reader is already safe, a *rand.Rand is not.
func NewLockedReader(r io.Reader) io.Reader {
	return &lockedReader{r: r}
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.r.Read(p)
}

// NewSeededReader deterministic random reader, goroutine-safe.
//
// only for tests and known-answer vectors, never to split real secrets.
func NewSeededReader(seed int64) io.Reader {
	//nolint:gosec // G404: deterministic on purpose
	return NewLockedReader(rand.New(rand.NewSource(seed)))
}
