// Package cmd command line tools of twon
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	gutils "github.com/Laisky/twon"
	"github.com/Laisky/twon/config"
	"github.com/Laisky/twon/log"
)

// stdio path means stdin or stdout
const stdio = "-"

var rootCmd = &cobra.Command{
	Use:   "twon",
	Short: "(2, n) threshold secret sharing",
	Long: gutils.Dedent(`
		twon split a secret into n shares, any two of them recover the secret,
		a single share reveals nothing about it.

		logs are written to stderr or --log-file, stdout only carries shares or secrets.`),
	Args:          NoExtraArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupRoot(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func setupRoot(cmd *cobra.Command) (err error) {
	for key, name := range map[string]string{
		"debug":    "debug",
		"log.file": "log-file",
	} {
		if err = config.Shared.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag `%s`", name)
		}
	}

	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		if err = loadConfig(cfgPath); err != nil {
			return err
		}
	}

	if logFile := config.Shared.GetString("log.file"); logFile != "" {
		logger, err := log.New(
			log.WithOutputPaths([]string{logFile}),
			log.WithEncoding(log.EncodingJSON),
		)
		if err != nil {
			return errors.Wrapf(err, "create logger for `%s`", logFile)
		}

		log.Shared = logger
	}

	if config.Shared.GetBool("debug") {
		if err = log.Shared.ChangeLevel(log.LevelDebug); err != nil {
			return errors.Wrap(err, "change logger level to debug")
		}
	}

	return nil
}

// loadConfig load config file, or `settings.yml` if cfgPath is a dir
func loadConfig(cfgPath string) error {
	isDir, err := gutils.IsDir(cfgPath)
	if err != nil {
		return errors.Wrapf(err, "stat config `%s`", cfgPath)
	}

	if isDir {
		err = config.Shared.LoadFromDir(cfgPath, config.WithEnableInclude())
	} else {
		err = config.Shared.LoadFromFile(cfgPath, config.WithEnableInclude())
	}

	return errors.Wrapf(err, "load config `%s`", cfgPath)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Shared.Error("run command", zap.Error(err))
	}

	_ = log.Shared.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file, yaml/json/toml by extension, or dir contains settings.yml")
	rootCmd.PersistentFlags().String("log-file", "", "write json logs to file instead of stderr")
}

// NoExtraArgs make sure every args has been processed
//
// do not allow any un processed args
func NoExtraArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown args `%v`", args)
	}

	return nil
}

// readInput read all bytes from file, `-` means stdin
func readInput(fpath string) ([]byte, error) {
	if fpath == stdio || fpath == "" {
		data, err := io.ReadAll(os.Stdin)
		return data, errors.Wrap(err, "read stdin")
	}

	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "read file `%s`", fpath)
	}

	return data, nil
}

// writeOutput write to file by writer, `-` means stdout.
// new files are created with mode 0600
func writeOutput(fpath string, write func(w io.Writer) error) (err error) {
	if fpath == stdio || fpath == "" {
		return write(os.Stdout)
	}

	fp, err := os.OpenFile(fpath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "open file `%s`", fpath)
	}
	defer gutils.CloseQuietly(fp)

	if err = write(fp); err != nil {
		return errors.Wrapf(err, "write file `%s`", fpath)
	}

	return errors.Wrapf(fp.Close(), "close file `%s`", fpath)
}
