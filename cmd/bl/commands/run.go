package commands

import (
	"fmt"

	"github.com/panyam/blang/console"
	"github.com/spf13/cobra"
)

var (
	showResult bool
	unchecked  bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Checks and runs a bl program",
	Long: `The run command lexes, parses, resolves and type checks a program and,
if every pass succeeds, evaluates it. Runtime errors are reported with the
offending source line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := loadValidated(cmd, args[0], unchecked)
		if err != nil {
			return err
		}
		result, err := newInterpreter(cmd, fs).Interpret(fs.Program)
		if err != nil {
			cfg.Reporter(cmd.ErrOrStderr()).Report("runtime", fs, err)
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if showResult {
			console.DumpResult(cmd.OutOrStdout(), result)
		}
		return nil
	},
}

func init() {
	AddCommand(runCmd)
	runCmd.Flags().BoolVar(&showResult, "result", false, "Print the value of the last top level declaration")
	runCmd.Flags().BoolVar(&unchecked, "unchecked", false, "Run even if the type checker reports errors")
}
