package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/panyam/blang/console"
	"github.com/panyam/blang/debugger"
	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/loader"
	"github.com/panyam/blang/runtime"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	breakLines  []int
	stopOnEntry bool
)

var debugCmd = &cobra.Command{
	Use:   "debug <file>",
	Short: "Runs a bl program under the interactive debugger",
	Long: `The debug command runs a program one node at a time. Execution stops at
breakpoints, and at every node while stepping. Press Ctrl+C while the
program runs to pause it.

At the prompt:
  break <line>     set a breakpoint on the first node of a line
  clear <line>     remove breakpoints on a line
  continue, c      run to the next breakpoint
  step, s          step into the next node
  next, n          step over calls
  frames, bt       show the call stack
  locals           show local bindings
  list, l          show the current line
  quit, q          clear breakpoints and run to completion`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := loadValidated(cmd, args[0], false)
		if err != nil {
			return err
		}
		d := debugger.New(newInterpreter(cmd, fs), fs.Program)
		d.StopOnEntry = stopOnEntry
		for _, line := range breakLines {
			if _, err := d.SetBreakpointAtLine(line); err != nil {
				return err
			}
		}

		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)

		s := newDebugSession(d, fs, cmd.OutOrStdout(), promptReader())
		s.interrupts = interrupts
		s.reporter = cfg.Reporter(cmd.ErrOrStderr())

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error { return d.Run(ctx) })
		g.Go(func() error { return s.Loop(ctx) })
		if err := g.Wait(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	AddCommand(debugCmd)
	debugCmd.Flags().IntSliceVarP(&breakLines, "break", "b", nil, "Lines to set breakpoints on")
	debugCmd.Flags().BoolVar(&stopOnEntry, "stop-on-entry", true, "Stop before the first node so breakpoints can be set")
}

// debugSession is the console side of a debugger: it waits for stops and
// reads commands until one of them resumes evaluation.
type debugSession struct {
	d        *debugger.Debugger
	fs       *loader.FileStatus
	out      io.Writer
	read     func() (string, bool)
	reporter *console.Reporter

	interrupts <-chan os.Signal
	last       string
}

func newDebugSession(d *debugger.Debugger, fs *loader.FileStatus, out io.Writer, read func() (string, bool)) *debugSession {
	return &debugSession{d: d, fs: fs, out: out, read: read}
}

// Loop consumes debugger events until the program completes.
func (s *debugSession) Loop(ctx context.Context) error {
	for {
		select {
		case ev, ok := <-s.d.Events():
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case debugger.EventBreakpointReached:
				s.showStop(e.Line, e.Node)
				s.prompt()
			case debugger.EventComplete:
				if e.Err != nil && s.reporter != nil {
					s.reporter.Report("runtime", s.fs, e.Err)
				}
				fmt.Fprintln(s.out, "program finished")
				return nil
			}
		case <-s.interrupts:
			pctx, cancel := context.WithTimeout(ctx, time.Second)
			err := s.d.Pause(pctx)
			cancel()
			if err != nil || !s.d.Paused() {
				continue
			}
			if node := s.d.CurrentNode(); node != nil {
				s.showStop(node.Pos().Line, node)
			}
			s.prompt()
		}
	}
}

// prompt reads commands until one resumes evaluation.
func (s *debugSession) prompt() {
	for {
		line, ok := s.read()
		if !ok {
			s.detach()
			return
		}
		if strings.TrimSpace(line) == "" {
			line = s.last
		}
		s.last = line
		if s.exec(line) {
			return
		}
	}
}

// exec runs one command and reports whether evaluation was resumed.
func (s *debugSession) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "continue", "c":
		return resume(s.d.Continue)
	case "step", "s":
		return resume(s.d.StepInto)
	case "next", "n":
		return resume(s.d.StepOver)
	case "quit", "q":
		s.detach()
		return true
	case "break", "b":
		if line, ok := s.lineArg(fields); ok {
			if node, err := s.d.SetBreakpointAtLine(line); err != nil {
				fmt.Fprintln(s.out, err)
			} else {
				fmt.Fprintf(s.out, "breakpoint set at line %d: %s\n", line, node)
			}
		}
	case "clear":
		if line, ok := s.lineArg(fields); ok {
			node := decl.NodeAtLine(s.fs.Program, line)
			if node == nil {
				fmt.Fprintf(s.out, "no statement starts on line %d\n", line)
			} else {
				s.d.ClearBreakpoint(node)
				fmt.Fprintf(s.out, "breakpoint cleared at line %d\n", line)
			}
		}
	case "breakpoints":
		fmt.Fprintf(s.out, "breakpoints: %v\n", s.d.BreakpointLines())
	case "frames", "bt":
		frames := s.d.Frames()
		if len(frames) == 0 {
			fmt.Fprintln(s.out, "<main>")
		}
		for i, f := range frames {
			fmt.Fprintf(s.out, "#%d %s (line %d)\n", i, f.Name, f.Line)
		}
	case "locals":
		locals := s.d.Locals()
		names := make([]string, 0, len(locals))
		for name := range locals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(s.out, "%s = %s\n", name, runtime.Stringify(locals[name]))
		}
	case "list", "l":
		if node := s.d.CurrentNode(); node != nil {
			s.showStop(node.Pos().Line, node)
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q, see bl debug --help\n", fields[0])
	}
	return false
}

func (s *debugSession) lineArg(fields []string) (int, bool) {
	if len(fields) < 2 {
		fmt.Fprintf(s.out, "usage: %s <line>\n", fields[0])
		return 0, false
	}
	line, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(s.out, "bad line number %q\n", fields[1])
		return 0, false
	}
	return line, true
}

func (s *debugSession) showStop(line int, node decl.Node) {
	src := s.fs.GetLineOfSource(decl.Range{Start: decl.Location{Line: line}})
	fmt.Fprintf(s.out, "stopped at line %d [%s] (%s)\n%4d | %s\n", line, s.d.Mode(), node, line, src)
}

// detach drops every breakpoint and lets the program run to completion.
func (s *debugSession) detach() {
	for _, line := range s.d.BreakpointLines() {
		if node := decl.NodeAtLine(s.fs.Program, line); node != nil {
			s.d.ClearBreakpoint(node)
		}
	}
	resume(s.d.Continue)
}

// resume calls a debugger command, repeating it once when the first call
// only switched modes.
func resume(command func() bool) bool {
	if command() {
		return true
	}
	return command()
}

var debugSuggestions = []prompt.Suggest{
	{Text: "break", Description: "Set a breakpoint: break <line>"},
	{Text: "clear", Description: "Clear a breakpoint: clear <line>"},
	{Text: "breakpoints", Description: "List breakpoint lines"},
	{Text: "continue", Description: "Run to the next breakpoint"},
	{Text: "step", Description: "Step into the next node"},
	{Text: "next", Description: "Step over calls"},
	{Text: "frames", Description: "Show the call stack"},
	{Text: "locals", Description: "Show local bindings"},
	{Text: "list", Description: "Show the current line"},
	{Text: "quit", Description: "Clear breakpoints and run to completion"},
}

func debugCompleter(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return []prompt.Suggest{}
	}
	return prompt.FilterHasPrefix(debugSuggestions, d.GetWordBeforeCursor(), true)
}

// promptReader reads commands from the terminal with completion and
// history.
func promptReader() func() (string, bool) {
	var history []string
	reader := lineReader(func(onEnter prompt.KeyBindFunc) string {
		return prompt.Input("(bl) ", debugCompleter,
			prompt.OptionHistory(history),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionDescriptionBGColor(prompt.DarkGray),
			prompt.OptionDescriptionTextColor(prompt.White),
			prompt.OptionMaxSuggestion(10),
			prompt.OptionAddKeyBind(
				prompt.KeyBind{Key: prompt.Enter, Fn: onEnter},
				prompt.KeyBind{Key: prompt.ControlM, Fn: onEnter},
				prompt.KeyBind{Key: prompt.ControlJ, Fn: onEnter},
			),
		)
	})
	return func() (string, bool) {
		line, ok := reader()
		if line != "" {
			history = append(history, line)
		}
		return line, ok
	}
}

// lineReader turns a single-line input into a session reader. Input
// returns "" both for an empty submitted line and for Ctrl-D on an empty
// buffer, and only the former runs the Enter binding.
func lineReader(input func(onEnter prompt.KeyBindFunc) string) func() (string, bool) {
	return func() (string, bool) {
		submitted := false
		line := input(func(*prompt.Buffer) { submitted = true })
		if line == "" && !submitted {
			return "", false
		}
		return line, true
	}
}
