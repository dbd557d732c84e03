package cmd

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/twon/config"
	"github.com/Laisky/twon/crypto/threshold/twon"
	"github.com/Laisky/twon/log"
	"github.com/Laisky/twon/sharefile"
)

// isolateCommand give rootCmd fresh settings and default flags,
// restored after the test
func isolateCommand(t *testing.T) {
	t.Helper()

	origCfg, origLogger := config.Shared, log.Shared
	config.Shared = config.New()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		config.Shared, log.Shared = origCfg, origLogger
		rootCmd.SetArgs(nil)
	})
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)

	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestSplitRecoverFile(t *testing.T) {
	dir := t.TempDir()

	secret := make([]byte, 2048)
	_, err := rand.Read(secret)
	require.NoError(t, err)
	secret[0], secret[1] = 0, 0

	secretPath := filepath.Join(dir, "secret.bin")
	require.NoError(t, os.WriteFile(secretPath, secret, 0600))

	for _, format := range []sharefile.Format{sharefile.FormatText, sharefile.FormatJSON} {
		sharePath := filepath.Join(dir, "shares."+format.String())
		err = SplitFile(secretPath, sharePath, 5, format)
		require.NoError(t, err)

		st, err := os.Stat(sharePath)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0600), st.Mode().Perm())

		for _, verify := range []bool{false, true} {
			outPath := filepath.Join(dir, "recovered.bin")
			require.NoError(t, RecoverFile(sharePath, outPath, verify))

			got, err := os.ReadFile(outPath)
			require.NoError(t, err)
			require.Equal(t, secret, got)
		}
	}
}

func TestRecoverFileByAnyTwoShares(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secretPath, []byte("hello, twon"), 0600))

	sharePath := filepath.Join(dir, "shares.txt")
	require.NoError(t, SplitFile(secretPath, sharePath, 6, sharefile.FormatText,
		twon.WithSlopeBits(64), twon.WithXBits(32)))

	fp, err := os.Open(sharePath)
	require.NoError(t, err)
	f, err := sharefile.Decode(fp)
	require.NoError(t, err)
	require.NoError(t, fp.Close())
	require.Len(t, f.Shares, 6)

	for i := range f.Shares {
		for j := i + 1; j < len(f.Shares); j++ {
			recoverPair(t, dir, f.Shares[i], f.Shares[j])
		}
	}
}

func recoverPair(t *testing.T, dir string, a, b twon.Share) {
	t.Helper()

	pickedPath := filepath.Join(dir, "picked.txt")
	pf, err := os.Create(pickedPath)
	require.NoError(t, err)
	err = sharefile.Encode(pf, &sharefile.ShareFile{Shares: []twon.Share{a, b}}, sharefile.FormatText)
	require.NoError(t, err)
	require.NoError(t, pf.Close())

	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, RecoverFile(pickedPath, outPath, true))
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "hello, twon", string(got))
}

func TestRecoverFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		fpath := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fpath, []byte(content), 0600))
		return fpath
	}
	out := filepath.Join(dir, "out")

	t.Run("single share", func(t *testing.T) {
		err := RecoverFile(write("one.txt", "0x1\t0x31\n"), out, false)
		require.ErrorIs(t, err, twon.ErrInvalidShareCount)
	})

	t.Run("same x", func(t *testing.T) {
		err := RecoverFile(write("same.txt", "0x1\t0x31\n0x1\t0x31\n"), out, false)
		require.ErrorIs(t, err, twon.ErrDegenerateInput)
	})

	t.Run("inconsistent", func(t *testing.T) {
		fpath := write("bad.txt", "0x1\t0x31\n0x2\t0x38\n0x3\t0x40\n")
		err := RecoverFile(fpath, out, true)
		require.ErrorIs(t, err, twon.ErrInconsistentShares)
	})

	t.Run("not encoded secret", func(t *testing.T) {
		// line y = 7x + 42, 42 does not start with the marker byte
		err := RecoverFile(write("raw.txt", "0x1\t0x31\n0x2\t0x38\n"), out, false)
		require.ErrorIs(t, err, sharefile.ErrMalformedSecret)
	})

	t.Run("malformed", func(t *testing.T) {
		err := RecoverFile(write("malformed.txt", "hello\n"), out, false)
		require.ErrorIs(t, err, sharefile.ErrMalformedShare)
	})

	t.Run("not exists", func(t *testing.T) {
		err := RecoverFile(filepath.Join(dir, "notexists"), out, false)
		require.Error(t, err)
	})
}

func TestSplitFileErrors(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secretPath, []byte("s"), 0600))

	err := SplitFile(secretPath, filepath.Join(dir, "out"), 1, sharefile.FormatText)
	require.ErrorIs(t, err, twon.ErrInvalidShareCount)

	err = SplitFile(secretPath, filepath.Join(dir, "out"), 3, "xml")
	require.ErrorContains(t, err, "unknown share file format")
}

func TestCommandLine(t *testing.T) {
	isolateCommand(t)
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secretPath, []byte("command line secret"), 0600))

	cfgPath := filepath.Join(dir, "settings.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
split:
  sequential: true
  slope_bits: 32
output:
  format: json
`), 0600))

	sharePath := filepath.Join(dir, "shares.json")
	rootCmd.SetArgs([]string{"split", "-c", cfgPath,
		"-i", secretPath, "-o", sharePath, "-n", "4"})
	require.NoError(t, rootCmd.Execute())

	raw, err := os.ReadFile(sharePath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "{"))

	f, err := sharefile.Decode(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Len(t, f.Shares, 4)
	for i, s := range f.Shares {
		require.Equal(t, int64(i+1), s.X.Int64())
	}

	outPath := filepath.Join(dir, "recovered.txt")
	rootCmd.SetArgs([]string{"recover", "-i", sharePath, "-o", outPath, "--verify"})
	require.NoError(t, rootCmd.Execute())

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "command line secret", string(got))

	rootCmd.SetArgs([]string{"split", "extra"})
	require.Error(t, rootCmd.Execute())
}

func TestCommandLineConfigDirAndLogFile(t *testing.T) {
	isolateCommand(t)
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secretPath, []byte("s"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"),
		[]byte("split:\n  sequential: true\n"), 0600))

	logPath := filepath.Join(dir, "twon.log")
	sharePath := filepath.Join(dir, "shares.txt")
	rootCmd.SetArgs([]string{"split", "--debug", "-c", dir, "--log-file", logPath,
		"-i", secretPath, "-o", sharePath, "-n", "2"})
	require.NoError(t, rootCmd.Execute())
	_ = log.Shared.Sync()

	raw, err := os.ReadFile(sharePath)
	require.NoError(t, err)
	f, err := sharefile.Decode(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Equal(t, int64(1), f.Shares[0].X.Int64())
	require.Equal(t, int64(2), f.Shares[1].X.Int64())

	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(logs), `"message":"read secret"`)
	require.Contains(t, string(logs), `"message":"split secret"`)
	require.Contains(t, string(logs), f.ID.String())

	rootCmd.SetArgs([]string{"split", "-c", filepath.Join(dir, "notexists")})
	require.ErrorContains(t, rootCmd.Execute(), "stat config")
}

func TestIsolateCommand(t *testing.T) {
	origCfg, origLogger := config.Shared, log.Shared
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secretPath, []byte("s"), 0600))

	t.Run("run", func(t *testing.T) {
		isolateCommand(t)
		rootCmd.SetArgs([]string{"split", "--sequential", "--slope-bits", "8",
			"--log-file", filepath.Join(dir, "twon.log"),
			"-i", secretPath, "-o", filepath.Join(dir, "shares.txt")})
		require.NoError(t, rootCmd.Execute())
		require.True(t, config.Shared.GetBool("split.sequential"))
		require.NotSame(t, origCfg, config.Shared)
	})

	require.Same(t, origCfg, config.Shared)
	require.Equal(t, origLogger, log.Shared)
	require.False(t, splitCMD.Flags().Changed("sequential"))
	require.False(t, origCfg.GetBool("split.sequential"))

	bits, err := splitCMD.Flags().GetInt("slope-bits")
	require.NoError(t, err)
	require.Equal(t, twon.DefaultSlopeBits, bits)

	logFile, err := rootCmd.PersistentFlags().GetString("log-file")
	require.NoError(t, err)
	require.Empty(t, logFile)
}

func TestNoExtraArgs(t *testing.T) {
	require.NoError(t, NoExtraArgs(rootCmd, nil))
	require.Error(t, NoExtraArgs(rootCmd, []string{"a"}))
}
