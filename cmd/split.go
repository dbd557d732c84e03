package cmd

import (
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	gutils "github.com/Laisky/twon"
	"github.com/Laisky/twon/config"
	"github.com/Laisky/twon/crypto/threshold/twon"
	"github.com/Laisky/twon/log"
	"github.com/Laisky/twon/sharefile"
)

// splitCMD split secret file into shares
//
//	twon split -i secret.txt -n 5 -o shares.txt
var splitCMD = &cobra.Command{
	Use:   "split",
	Short: "split secret into n shares",
	Long: gutils.Dedent(`
		read secret bytes from input, split them into n shares,
		any two shares can recover the secret.

		the share file lists one share per line as "x<TAB>y" in hex.`),
	Args: NoExtraArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupSplitArgs(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSplit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(splitCMD)
	splitCMD.Flags().StringP("input", "i", stdio, "secret file, - means stdin")
	splitCMD.Flags().StringP("output", "o", stdio, "share file, - means stdout")
	splitCMD.Flags().BoolP("prompt", "p", false, "read secret from terminal without echo, ignore --input")
	splitCMD.Flags().IntP("shares", "n", 3, "number of shares, at least 2")
	splitCMD.Flags().String("format", string(sharefile.FormatText), "share file format, text or json")
	splitCMD.Flags().Bool("sequential", false, "use x-coordinates 1..n instead of random ones")
	splitCMD.Flags().Int("slope-bits", twon.DefaultSlopeBits, "bits of the random slope")
	splitCMD.Flags().Int("x-bits", twon.DefaultXBits, "bits of random x-coordinates")
}

func setupSplitArgs(cmd *cobra.Command) error {
	for key, name := range map[string]string{
		"split.slope_bits": "slope-bits",
		"split.x_bits":     "x-bits",
		"split.sequential": "sequential",
		"output.format":    "format",
	} {
		if err := config.Shared.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag `%s`", name)
		}
	}

	return nil
}

func runSplit(cmd *cobra.Command) error {
	in, _ := cmd.Flags().GetString("input")
	out, _ := cmd.Flags().GetString("output")
	n, _ := cmd.Flags().GetInt("shares")

	format, err := sharefile.ParseFormat(config.Shared.GetString("output.format"))
	if err != nil {
		return err
	}

	opts := []twon.SplitOption{
		twon.WithSlopeBits(config.Shared.GetInt("split.slope_bits")),
		twon.WithXBits(config.Shared.GetInt("split.x_bits")),
	}
	if config.Shared.GetBool("split.sequential") {
		opts = append(opts, twon.WithSequentialX())
	}

	if prompt, _ := cmd.Flags().GetBool("prompt"); prompt {
		secret, err := gutils.InputPassword("secret", func(v string) error {
			if v == "" {
				return errors.New("secret is empty")
			}

			return nil
		})
		if err != nil {
			return err
		}

		return SplitBytes([]byte(secret), out, n, format, opts...)
	}

	return SplitFile(in, out, n, format, opts...)
}

// SplitFile split the content of file in into n shares, write them to out.
// `-` means stdin or stdout.
func SplitFile(in, out string, n int, format sharefile.Format, opts ...twon.SplitOption) error {
	content, err := readInput(in)
	if err != nil {
		return err
	}

	log.Shared.Debug("read secret", zap.String("in", in), zap.Int("bytes", len(content)))
	return SplitBytes(content, out, n, format, opts...)
}

// SplitBytes split content into n shares, write them to out
func SplitBytes(content []byte, out string, n int, format sharefile.Format, opts ...twon.SplitOption) error {
	logger := log.Shared.With(
		zap.String("out", out),
		zap.Int("n", n),
	)

	shares, err := twon.Split(sharefile.EncodeSecret(content), n, opts...)
	if err != nil {
		return errors.Wrap(err, "split")
	}

	f := sharefile.New(shares)
	if err = writeOutput(out, func(w io.Writer) error {
		return sharefile.Encode(w, f, format)
	}); err != nil {
		return err
	}

	logger.Info("split secret",
		zap.String("id", f.ID.String()),
		zap.String("format", format.String()),
		zap.Int("secret_bytes", len(content)))
	return nil
}
