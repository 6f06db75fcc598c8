package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file...>",
	Short: "Parses, resolves and type checks bl files",
	Long: `The check command runs every front end pass over one or more files and
reports their errors. It does not run the programs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			fs, err := loadValidated(cmd, path, false)
			if err != nil {
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d declarations)\n", path, len(fs.Program.Declarations))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	AddCommand(checkCmd)
}
