package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Laisky/zap"
	"github.com/Laisky/zap/zapcore"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.log")
	logger, err := New(
		WithOutputPaths([]string{file}),
		WithZapOptions(
			zap.Filter(func(e zapcore.Entry, f []zapcore.Field) bool {
				return e.Message != "secret"
			}),
		),
	)
	require.NoError(t, err)

	for _, msg := range []string{"split", "secret", "recover"} {
		logger.Info(msg)
	}
	_ = logger.Sync()

	cntBytes, err := os.ReadFile(file)
	require.NoError(t, err)
	content := string(cntBytes)
	require.Contains(t, content, "log/filter_test.go")
	require.Contains(t, content, "split\n")
	require.Contains(t, content, "recover\n")
	require.NotContains(t, content, "secret\n")
	require.Equal(t, 2, strings.Count(content, "\n"))
}
