package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile   string
	logLevel  string
	maxErrors int
	noColor   bool

	// cfg is resolved before any subcommand runs.
	cfg Config
)

var rootCmd = &cobra.Command{
	Use:   "bl",
	Short: "bl lexes, checks, runs and debugs bl programs",
	Long: `bl is the toolchain for the bl language: a lexer, parser, scope
resolver, type checker, tree walking interpreter and an interactive
debugger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(envFile, cmd.Flags())
		if err != nil {
			return err
		}
		return cfg.Apply()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Env file to load settings from (missing is fine)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $BL_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().IntVar(&maxErrors, "max-errors", 0, "Errors reported per pass (default: $BL_MAX_ERRORS or 5)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output (default: $BL_NO_COLOR)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
