package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "print <bits>",
		Short: "Print a binary line with the paired-hammer scheduler",
		Long: `Print a line of '0' and '1' symbols, at least 5 columns wide, with the
alternating-match scheduler. Hammers 4 columns apart are consulted together
on every step of the chain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd, rootOpts, func(s *session) (string, error) {
				return args[0], s.printer.PrintLine(args[0])
			})
		},
	}
}

// NewFixedCommand creates the fixed command.
func NewFixedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fixed <bits>",
		Short: "Print an 8-column line on the solenoid head",
		Long: `Print exactly 8 binary symbols on the eight-solenoid head and show the
line reconstructed from the firings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd, rootOpts, func(s *session) (string, error) {
				return s.printer.PrintLineFixed8(args[0])
			})
		},
	}
}

// NewRawCommand creates the raw command.
func NewRawCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "raw <text>",
		Short: "Sanitize free text and print it",
		Long: `Take the first 8 characters of text, replace everything other than '0',
'1' and space with '0', and print the result with the hammer scheduler.
Arguments are joined with single spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return runLine(cmd, rootOpts, func(s *session) (string, error) {
				err := s.printer.PrintRaw(text)
				return s.printer.LastReport().Line, err
			})
		},
	}
}

// runLine opens a session, prints one line and reports the outcome.
func runLine(cmd *cobra.Command, opts *RootOptions, run func(*session) (string, error)) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	printed, printErr := run(s)
	if err := s.finish(); err != nil {
		return err
	}
	if printErr != nil {
		return printErr
	}

	report := s.printer.LastReport()
	fmt.Fprintf(cmd.OutOrStdout(), "printed %s (%s, %d steps, job %s)\n",
		printed, report.Scheduler, report.Steps, report.Job)
	return nil
}
