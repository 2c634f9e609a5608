package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainprinter-go/pkg/config"
	"chainprinter-go/pkg/log"
)

// RootOptions holds the global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Driver     string
	Device     string
	Baud       int
	RetryLimit int
	TracePath  string
	Metrics    bool
	LogLevel   string
	LogFormat  string
	LogFile    string
}

// ValidDrivers lists the accepted --driver values.
var ValidDrivers = []string{config.DriverLog, config.DriverTrace, config.DriverSerial}

// NewRootCommand creates the root command for the chainprinter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chainprinter",
		Short: "Chain printer firing scheduler",
		Long: `Drive the hammers or solenoids of a chain printer so that every column
of a binary line fires exactly once, then feed the line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("driver") && !isValidDriver(opts.Driver) {
				return WrapExitError(ExitCommandError, "invalid flag",
					fmt.Errorf("driver %q: must be one of %v", opts.Driver, ValidDrivers))
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "printer configuration file")
	flags.StringVar(&opts.Driver, "driver", config.DriverLog, "print driver (log|trace|serial)")
	flags.StringVar(&opts.Device, "device", "", "serial device for the serial driver")
	flags.IntVar(&opts.Baud, "baud", 0, "serial baud rate")
	flags.IntVar(&opts.RetryLimit, "retry-limit", 0, "hammer retry step bound (0 = default)")
	flags.StringVar(&opts.TracePath, "trace", "", "write the driver trace of the line as YAML to this file")
	flags.BoolVar(&opts.Metrics, "metrics", false, "print metrics in Prometheus text format when done")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "log format (text|json)")
	flags.StringVar(&opts.LogFile, "logfile", "", "log to a rotating file instead of stderr")

	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewFixedCommand(opts))
	cmd.AddCommand(NewRawCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewPortsCommand(opts))

	return cmd
}

func isValidDriver(driver string) bool {
	for _, d := range ValidDrivers {
		if d == driver {
			return true
		}
	}
	return false
}

// resolveConfig loads the config file, if any, and applies flags that were
// set explicitly on the command line.
func resolveConfig(cmd *cobra.Command, opts *RootOptions) (*config.PrinterConfig, error) {
	pc := config.DefaultPrinterConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadPrinterConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		pc = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		pc.Driver = opts.Driver
	}
	if flags.Changed("device") {
		pc.Device = opts.Device
	}
	if flags.Changed("baud") {
		pc.Baud = opts.Baud
	}
	if flags.Changed("retry-limit") {
		pc.RetryLimit = opts.RetryLimit
	}
	if flags.Changed("log-level") {
		pc.LogLevel = log.ParseLevel(opts.LogLevel)
	}
	if flags.Changed("log-format") {
		pc.LogFormat = log.ParseFormat(opts.LogFormat)
	}
	if flags.Changed("logfile") {
		pc.LogFile = opts.LogFile
	}
	return pc, nil
}
