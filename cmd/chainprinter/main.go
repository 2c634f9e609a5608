// chainprinter drives a chain printer's firing mechanism from the command
// line.
//
// Usage:
//
//	chainprinter [--config printer.cfg] [flags] <command> <args>
//
// Commands:
//
//	print <bits>        print a binary line with the paired-hammer scheduler
//	fixed <bits>        print an 8-column line on the solenoid head
//	raw <text>          sanitize up to 8 characters of text and print it
//	verify <trace>      check a recorded YAML trace and replay it
//	ports               list serial devices
//
// Examples:
//
//	# Dry run, showing every driver call
//	chainprinter --driver trace print 0110100111
//
//	# Print on hardware and keep a trace of the line
//	chainprinter --driver serial --device /dev/ttyUSB0 --trace line.yaml print 11011
//
//	# Check the recorded trace
//	chainprinter verify line.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}
