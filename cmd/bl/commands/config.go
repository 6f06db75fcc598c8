package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/panyam/blang/console"
	"github.com/panyam/blang/runtime"
	"github.com/spf13/pflag"
)

const (
	MaxErrorsEnvVar = "BL_MAX_ERRORS"
	NoColorEnvVar   = "BL_NO_COLOR"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	LogLevel  runtime.LogLevel
	MaxErrors int
	NoColor   bool
}

// LoadConfig layers settings: defaults, then envfile (which never overrides
// variables already set), then the environment, then flags that were set
// explicitly.
func LoadConfig(envfile string, flags *pflag.FlagSet) (Config, error) {
	out := Config{LogLevel: runtime.GetLogLevel(), MaxErrors: console.DefaultDepth}

	if envfile != "" {
		if err := godotenv.Load(envfile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return out, fmt.Errorf("loading %s: %w", envfile, err)
		}
	}

	if v := os.Getenv(runtime.LogLevelEnvVar); v != "" {
		level, err := runtime.ParseLogLevel(v)
		if err != nil {
			return out, fmt.Errorf("%s: %w", runtime.LogLevelEnvVar, err)
		}
		out.LogLevel = level
	}
	if v := os.Getenv(MaxErrorsEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return out, fmt.Errorf("%s: %w", MaxErrorsEnvVar, err)
		}
		out.MaxErrors = n
	}
	if v := os.Getenv(NoColorEnvVar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return out, fmt.Errorf("%s: %w", NoColorEnvVar, err)
		}
		out.NoColor = b
	}

	if flags == nil {
		return out, nil
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		level, err := runtime.ParseLogLevel(f.Value.String())
		if err != nil {
			return out, fmt.Errorf("--log-level: %w", err)
		}
		out.LogLevel = level
	}
	if f := flags.Lookup("max-errors"); f != nil && f.Changed {
		n, err := strconv.Atoi(f.Value.String())
		if err != nil {
			return out, fmt.Errorf("--max-errors: %w", err)
		}
		out.MaxErrors = n
	}
	if f := flags.Lookup("no-color"); f != nil && f.Changed {
		out.NoColor = f.Value.String() == "true"
	}
	return out, nil
}

// Apply pushes the config into the process wide logger and colour settings.
func (c Config) Apply() error {
	runtime.SetLogLevel(c.LogLevel)
	if c.NoColor {
		color.NoColor = true
	}
	return nil
}

// Reporter builds an error reporter honouring the config.
func (c Config) Reporter(w io.Writer) *console.Reporter {
	r := console.NewReporter(w, c.NoColor || color.NoColor)
	r.Depth = c.MaxErrors
	return r
}
