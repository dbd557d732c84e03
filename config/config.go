// Package config threadsafe wrapper of viper.
//
// settings are merged from command line flags and config files,
// flags bound by BindPFlag take effect only when they are changed.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	gutils "github.com/Laisky/twon"
	"github.com/Laisky/twon/log"
)

const defaultConfigFileName = "settings.yml"

// Config project settings
type Config struct {
	sync.RWMutex

	v *viper.Viper
}

// Shared is the settings for this project
var Shared = New()

// New new settings
func New() *Config {
	return &Config{
		v: viper.New(),
	}
}

// BindPFlag bind one flag to key
func (s *Config) BindPFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.Errorf("flag for `%s` not found", key)
	}

	s.Lock()
	defer s.Unlock()

	return s.v.BindPFlag(key, flag)
}

// GetString get setting by key
func (s *Config) GetString(key string) string {
	s.RLock()
	defer s.RUnlock()

	return s.v.GetString(key)
}

// GetBool get setting by key
func (s *Config) GetBool(key string) bool {
	s.RLock()
	defer s.RUnlock()

	return s.v.GetBool(key)
}

// GetInt get setting by key
func (s *Config) GetInt(key string) int {
	s.RLock()
	defer s.RUnlock()

	return s.v.GetInt(key)
}

// MergeConfig merge in into current configs
func (s *Config) MergeConfig(typ string, in io.Reader) error {
	s.Lock()
	defer s.Unlock()

	s.v.SetConfigType(typ)
	return s.v.MergeConfig(in)
}

// LoadFromDir load settings from dir, default fname is `settings.yml`
func (s *Config) LoadFromDir(dirPath string, opts ...Option) error {
	fpath := filepath.Join(dirPath, defaultConfigFileName)
	return s.LoadFromFile(fpath, opts...)
}

type option struct {
	enableInclude bool
}

func (o *option) applyOpts(opts ...Option) (*option, error) {
	for _, f := range opts {
		if err := f(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Option opt for LoadFromFile
type Option func(*option) error

// WithEnableInclude enable `include` in config file
func WithEnableInclude() Option {
	return func(opt *option) error {
		opt.enableInclude = true
		return nil
	}
}

const includeKey = "include"

// configType config type from file extension, like `yml`
func configType(fpath string) string {
	return strings.TrimLeft(filepath.Ext(fpath), ".")
}

// LoadFromFile load settings from file.
//
// if include is enabled, the file named by key `include` is loaded
// as well, relative to the entry file's dir. included files are merged
// before the file that includes them, so the entry file wins.
func (s *Config) LoadFromFile(entryFile string, opts ...Option) (err error) {
	opt, err := new(option).applyOpts(opts...)
	if err != nil {
		return errors.Wrap(err, "apply options")
	}

	logger := log.Shared.With(
		zap.String("file", entryFile),
		zap.Bool("include", opt.enableInclude),
	)

	cfgDir := filepath.Dir(entryFile)
	cfgFiles := []string{entryFile}
	curFpath := entryFile

RECUR_INCLUDE_LOOP:
	for opt.enableInclude {
		include, err := readInclude(curFpath)
		if err != nil {
			return err
		}
		if include == "" {
			break
		}

		curFpath = filepath.Join(cfgDir, include)
		for _, f := range cfgFiles {
			if f == curFpath {
				break RECUR_INCLUDE_LOOP
			}
		}

		cfgFiles = append(cfgFiles, curFpath)
	}

	if err = s.loadConfigFiles(cfgFiles); err != nil {
		return err
	}

	logger.Debug("load configs", zap.Strings("config_files", cfgFiles))
	return nil
}

// readInclude read key `include` from single file
func readInclude(fpath string) (string, error) {
	fp, err := os.Open(fpath)
	if err != nil {
		return "", errors.Wrapf(err, "open config file `%s`", fpath)
	}
	defer gutils.CloseQuietly(fp)

	v := viper.New()
	v.SetConfigType(configType(fpath))
	if err = v.ReadConfig(fp); err != nil {
		return "", errors.Wrapf(err, "load config from file `%s`", fpath)
	}

	return v.GetString(includeKey), nil
}

func (s *Config) loadConfigFiles(cfgFiles []string) (err error) {
	for i := len(cfgFiles) - 1; i >= 0; i-- {
		if err = func() error {
			filePath := cfgFiles[i]
			fp, err := os.Open(filePath)
			if err != nil {
				return errors.Wrapf(err, "open config file `%s`", filePath)
			}
			defer gutils.CloseQuietly(fp)

			if err = s.MergeConfig(configType(filePath), fp); err != nil {
				return errors.Wrapf(err, "merge config file `%s`", filePath)
			}

			return nil
		}(); err != nil {
			return err
		}
	}

	return nil
}
