package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chainprinter-go/pkg/driver"
	"chainprinter-go/pkg/log"
	"chainprinter-go/pkg/printer"
)

// VerifyOptions holds the verify command flags.
type VerifyOptions struct {
	Width    int
	NoReplay bool
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify <trace.yaml>",
		Short: "Check a recorded driver trace",
		Long: `Check that a trace written with --trace honours the driver contract: every
column fires once, and the linefeed comes last and only after all columns.

When the trace names its scheduler and line, the line is scheduled again
against a recorder and the two event sequences must be identical.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.Width, "width", "w", 0, "line width (default: length of the recorded line)")
	cmd.Flags().BoolVar(&opts.NoReplay, "no-replay", false, "skip the replay comparison")

	return cmd
}

func runVerify(cmd *cobra.Command, rootOpts *RootOptions, opts *VerifyOptions, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open trace", err)
	}
	defer f.Close()

	tr, err := driver.LoadTrace(f)
	if err != nil {
		return WrapExitError(ExitCommandError, "load trace", err)
	}

	width := opts.Width
	if width == 0 {
		width = len([]rune(tr.Line))
	}
	if width == 0 {
		return WrapExitError(ExitCommandError, "verify", fmt.Errorf("trace has no line; pass --width"))
	}

	if err := tr.Validate(width); err != nil {
		return WrapExitError(ExitFailure, "trace invalid", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trace ok: %d events, %d of %d columns fired, %d linefeed\n",
		len(tr.Events), len(tr.Fired()), width, tr.Count(driver.OpLinefeed))

	if opts.NoReplay || tr.Scheduler == "" || tr.Line == "" {
		return nil
	}
	if err := replay(tr, rootOpts.RetryLimit); err != nil {
		return WrapExitError(ExitFailure, "replay", err)
	}
	fmt.Fprintf(out, "replay matches (%s %s)\n", tr.Scheduler, tr.Line)
	return nil
}

// replay schedules tr.Line again and compares the driver calls.
func replay(tr driver.Trace, retryLimit int) error {
	logger := log.New("verify")
	logger.SetWriter(io.Discard)

	rec := driver.NewRecorder()
	p := printer.New(rec, printer.Options{RetryLimit: retryLimit, Logger: logger})
	switch tr.Scheduler {
	case printer.SchedulerHammer:
		_ = p.PrintLine(tr.Line)
	case printer.SchedulerSolenoid:
		_, _ = p.PrintLineFixed8(tr.Line)
	default:
		return fmt.Errorf("unknown scheduler %q", tr.Scheduler)
	}

	got := rec.Events()
	for i := 0; i < len(got) && i < len(tr.Events); i++ {
		if got[i] != tr.Events[i] {
			return fmt.Errorf("event %d: recorded %q, replay gives %q", i, tr.Events[i], got[i])
		}
	}
	if len(got) != len(tr.Events) {
		return fmt.Errorf("recorded %d events, replay gives %d", len(tr.Events), len(got))
	}
	return nil
}
