package loader

import (
	"errors"
	"fmt"
	"io"
)

// ErrHasErrors is returned when a file fails one of the front end passes.
var ErrHasErrors = errors.New("file has errors")

// ErrorCollector keeps the errors of every pass over one file in the order
// they were found.
type ErrorCollector struct {
	Errors []error

	// Max errors to print
	// 0 => no limit
	MaxErrors int
}

func (f *ErrorCollector) HasErrors() bool {
	return len(f.Errors) > 0
}

// PrintErrors writes at most MaxErrors errors to w.
func (f *ErrorCollector) PrintErrors(w io.Writer) {
	for i, err := range f.Errors {
		if f.MaxErrors > 0 && i >= f.MaxErrors {
			fmt.Fprintf(w, "... and %d more\n", len(f.Errors)-i)
			return
		}
		fmt.Fprintln(w, err)
	}
}

func (f *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if err != nil {
			f.Errors = append(f.Errors, err)
		}
	}
}

// Err wraps ErrHasErrors with the first error, or returns nil.
func (f *ErrorCollector) Err() error {
	if !f.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %d error(s), first: %v", ErrHasErrors, len(f.Errors), f.Errors[0])
}

// asErrors widens a typed error slice.
func asErrors[E error](errs []E) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
