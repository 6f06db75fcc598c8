package commands

import (
	"fmt"

	"github.com/panyam/blang/loader"
	"github.com/panyam/blang/runtime"
	"github.com/spf13/cobra"
)

// loadValidated loads and validates path, reporting every pass's errors to
// stderr. With allowTypeErrors, a file whose only problems are type errors is
// still returned without error.
func loadValidated(cmd *cobra.Command, path string, allowTypeErrors bool) (*loader.FileStatus, error) {
	l := loader.NewLoader(nil)
	l.MaxErrors = cfg.MaxErrors
	fs, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if l.Validate(fs) {
		return fs, nil
	}
	cfg.Reporter(cmd.ErrOrStderr()).ReportStatus(fs)
	if allowTypeErrors && fs.Parsed() && len(fs.ParseErrors) == 0 && len(fs.ResolutionErrors) == 0 {
		runtime.Warn("%s: running despite %d type error(s)", path, len(fs.TypeErrors))
		return fs, nil
	}
	return fs, fmt.Errorf("%s: %w", path, loader.ErrHasErrors)
}

// newInterpreter prepares an interpreter for a validated file, writing
// program output to the command's stdout.
func newInterpreter(cmd *cobra.Command, fs *loader.FileStatus) *runtime.Interpreter {
	interp := runtime.NewInterpreter(cmd.OutOrStdout())
	interp.SetLocals(fs.Locals)
	return interp
}
