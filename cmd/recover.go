package cmd

import (
	"bytes"
	"io"
	"math/big"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	gutils "github.com/Laisky/twon"
	"github.com/Laisky/twon/crypto/threshold/twon"
	"github.com/Laisky/twon/log"
	"github.com/Laisky/twon/sharefile"
)

// recoverCMD recover secret from share file
//
//	twon recover -i shares.txt -o secret.txt
var recoverCMD = &cobra.Command{
	Use:   "recover",
	Short: "recover secret from two shares",
	Long: gutils.Dedent(`
		read share file from input, recover the secret by the first two shares.

		with --verify, every share in the file must lie on the same line.`),
	Args: NoExtraArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("input")
		out, _ := cmd.Flags().GetString("output")
		verify, _ := cmd.Flags().GetBool("verify")
		return RecoverFile(in, out, verify)
	},
}

func init() {
	rootCmd.AddCommand(recoverCMD)
	recoverCMD.Flags().StringP("input", "i", stdio, "share file, - means stdin")
	recoverCMD.Flags().StringP("output", "o", stdio, "secret file, - means stdout")
	recoverCMD.Flags().Bool("verify", false, "check that all shares are consistent")
}

// RecoverFile recover secret from share file in, write it to out.
// `-` means stdin or stdout.
func RecoverFile(in, out string, verify bool) error {
	logger := log.Shared.With(
		zap.String("in", in),
		zap.String("out", out),
	)

	data, err := readInput(in)
	if err != nil {
		return err
	}

	f, err := sharefile.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "decode share file")
	}

	var secret *big.Int
	if verify {
		secret, err = twon.RecoverAll(f.Shares)
	} else {
		if len(f.Shares) < 2 {
			return errors.Wrapf(twon.ErrInvalidShareCount, "need 2 shares, got %d", len(f.Shares))
		}

		secret, err = twon.Recover(f.Shares[0], f.Shares[1])
	}
	if err != nil {
		return errors.Wrap(err, "recover")
	}

	content, err := sharefile.DecodeSecret(secret)
	if err != nil {
		return err
	}

	if err = writeOutput(out, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}); err != nil {
		return err
	}

	logger.Info("recover secret",
		zap.String("id", f.ID.String()),
		zap.Int("shares", len(f.Shares)),
		zap.Bool("verify", verify))
	return nil
}
