package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no indent", "a\nb", "a\nb"},
		{"tab", `
			split a secret

				twon split -n 3
		`, "split a secret\n\n    twon split -n 3"},
		{"spaces", "\n  a\n    b\n  c\n", "a\n  b\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Dedent(tt.in))
		})
	}
}
