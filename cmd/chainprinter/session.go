package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chainprinter-go/pkg/config"
	"chainprinter-go/pkg/driver"
	"chainprinter-go/pkg/log"
	"chainprinter-go/pkg/metrics"
	"chainprinter-go/pkg/printer"
	"chainprinter-go/pkg/serial"
)

// session wires one command invocation: logger, driver stack, printer.
type session struct {
	cmd      *cobra.Command
	opts     *RootOptions
	cfg      *config.PrinterConfig
	logger   *log.Logger
	recorder *driver.Recorder
	printer  *printer.Printer
	closers  []io.Closer
}

func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	pc, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	s := &session{cmd: cmd, opts: opts, cfg: pc}

	if err := s.setupLogger(); err != nil {
		s.Close()
		return nil, err
	}
	drv, err := s.setupDriver()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.printer = printer.New(drv, printer.Options{
		RetryLimit: pc.RetryLimit,
		Logger:     s.logger,
		Metrics:    metrics.NewPrinterMetrics(nil),
	})
	return s, nil
}

func (s *session) setupLogger() error {
	if s.cfg.LogFile != "" {
		logger, w, err := log.NewFileLogger("chainprinter", log.RotationConfig{
			Filename:   s.cfg.LogFile,
			MaxSize:    s.cfg.LogMaxSize,
			MaxBackups: s.cfg.LogMaxBackups,
		})
		if err != nil {
			return WrapExitError(ExitCommandError, "open log file", err)
		}
		s.logger = logger
		s.closers = append(s.closers, w)
	} else {
		s.logger = log.New("chainprinter")
		s.logger.SetWriter(s.cmd.ErrOrStderr())
		if !s.cfg.LogColor || os.Getenv("NO_COLOR") != "" {
			s.logger.SetColorize(false)
		}
	}
	s.logger.SetLevel(s.cfg.LogLevel)
	s.logger.SetFormat(s.cfg.LogFormat)
	if s.cfg.LogTimeFormat != "" {
		s.logger.SetTimeFormat(s.cfg.LogTimeFormat)
	}
	return nil
}

// setupDriver builds the driver stack. A recorder is added whenever the
// trace is needed for output.
func (s *session) setupDriver() (driver.Driver, error) {
	var drv driver.Driver
	switch s.cfg.Driver {
	case config.DriverTrace:
		s.recorder = driver.NewRecorder()
		return driver.NewLogging(s.recorder, s.logger.WithPrefix("driver")), nil
	case config.DriverSerial:
		port, err := serial.Open(serial.Config{Device: s.cfg.Device, BaudRate: s.cfg.Baud})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open serial device", err)
		}
		s.closers = append(s.closers, port)
		s.logger.WithFields(log.Fields{"device": port.Device(), "baud": s.cfg.Baud}).Info("serial port open")
		drv = driver.NewLogging(driver.NewSerial(port), s.logger.WithPrefix("driver"))
	default:
		drv = driver.NewLogging(nil, s.logger.WithPrefix("driver"))
	}
	if s.opts.TracePath != "" {
		s.recorder = driver.NewRecorder()
		drv = driver.Multi{drv, s.recorder}
	}
	return drv, nil
}

// finish emits the trace and metrics requested for the command that just
// ran. It runs whether or not the line printed.
func (s *session) finish() error {
	report := s.printer.LastReport()
	out := s.cmd.OutOrStdout()

	if s.recorder != nil {
		tr := s.recorder.Trace()
		tr.Job = report.Job
		tr.Scheduler = report.Scheduler
		tr.Line = report.Line

		if s.cfg.Driver == config.DriverTrace {
			fmt.Fprint(out, tr.String())
		}
		if s.opts.TracePath != "" {
			if err := writeTraceFile(s.opts.TracePath, tr); err != nil {
				return WrapExitError(ExitCommandError, "write trace", err)
			}
		}
	}
	if s.opts.Metrics {
		fmt.Fprint(out, s.printer.Metrics().Registry().Gather())
	}
	return nil
}

func writeTraceFile(path string, tr driver.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tr.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
