package utils

import (
	"io"
	"os"
)

// CloseQuietly closes `io.Closer` quietly, ignore errcheck linter
func CloseQuietly(v io.Closer) {
	if v == nil {
		return
	}

	_ = v.Close()
}

// IsDir is path exists as dir
func IsDir(path string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return st.IsDir(), nil
}
