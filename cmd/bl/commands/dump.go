package commands

import (
	"github.com/panyam/blang/console"
	"github.com/panyam/blang/loader"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Prints the token stream of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := loader.NewLoader(nil).LoadFile(args[0])
		if err != nil {
			return err
		}
		if fs.LexError != nil {
			cfg.Reporter(cmd.ErrOrStderr()).ReportStatus(fs)
			return fs.Err()
		}
		console.DumpTokens(cmd.OutOrStdout(), fs.Tokens)
		return nil
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Pretty prints the parsed program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := loader.NewLoader(nil).LoadFile(args[0])
		if err != nil {
			return err
		}
		if fs.HasErrors() {
			cfg.Reporter(cmd.ErrOrStderr()).ReportStatus(fs)
			return fs.Err()
		}
		console.DumpAST(cmd.OutOrStdout(), fs.Program)
		return nil
	},
}

var typesCmd = &cobra.Command{
	Use:   "types <file>",
	Short: "Prints the inferred type of each top level declaration",
	Long: `The types command type checks a file and prints one line per top level
declaration. Declarations that failed to check show as never.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := loadValidated(cmd, args[0], true)
		if err != nil {
			return err
		}
		console.DumpTypes(cmd.OutOrStdout(), fs)
		return fs.Err()
	},
}

func init() {
	AddCommand(tokensCmd)
	AddCommand(astCmd)
	AddCommand(typesCmd)
}
