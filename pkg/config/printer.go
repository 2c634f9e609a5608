package config

import (
	"fmt"

	"chainprinter-go/pkg/errors"
	"chainprinter-go/pkg/log"
)

// Driver names accepted by [printer] driver.
const (
	DriverLog    = "log"
	DriverTrace  = "trace"
	DriverSerial = "serial"
)

// Supported serial rates.
var baudRates = []int{9600, 19200, 38400, 57600, 115200, 230400, 250000, 460800, 500000, 921600, 1000000}

// PrinterConfig is the host configuration:
//
//	[printer]
//	driver: log            # log, trace or serial
//	retry_limit: 0         # hammer retry bound, 0 for the default
//
//	[serial]
//	device: /dev/ttyUSB0
//	baud: 250000
//
//	[log]
//	level: info
//	format: text           # text or json
//	time_format: 15:04:05  # Go layout for text timestamps
//	color: true            # colored level prefixes on a terminal
//	file: /var/log/chainprinter.log
//	max_size: 1024         # KB before rotation
//	max_backups: 3
type PrinterConfig struct {
	Driver     string
	RetryLimit int

	Device string
	Baud   int

	LogLevel      log.LogLevel
	LogFormat     log.OutputFormat
	LogTimeFormat string
	LogColor      bool
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
}

// DefaultPrinterConfig returns the configuration used without a file.
func DefaultPrinterConfig() *PrinterConfig {
	return &PrinterConfig{
		Driver:        DriverLog,
		Device:        "/dev/ttyUSB0",
		Baud:          250000,
		LogLevel:      log.INFO,
		LogFormat:     log.FormatText,
		LogColor:      true,
		LogMaxSize:    1024,
		LogMaxBackups: 3,
	}
}

// LoadPrinterConfig loads and validates the file at path.
func LoadPrinterConfig(path string) (*PrinterConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValidation, fmt.Sprintf("load %s: %v", path, err))
	}
	return ParsePrinterConfig(cfg)
}

// ParsePrinterConfig extracts a PrinterConfig from cfg. Missing sections
// and options take their defaults; unknown sections or options are errors.
func ParsePrinterConfig(cfg *Config) (*PrinterConfig, error) {
	pc := DefaultPrinterConfig()
	var err error

	printer := cfg.GetSectionOptional("printer")
	if pc.Driver, err = printer.GetChoice("driver", []string{DriverLog, DriverTrace, DriverSerial}, pc.Driver); err != nil {
		return nil, err
	}
	if pc.RetryLimit, err = printer.GetIntWithBounds("retry_limit", 0, nil, 0); err != nil {
		return nil, err
	}

	serial := cfg.GetSectionOptional("serial")
	if pc.Device, err = serial.Get("device", pc.Device); err != nil {
		return nil, err
	}
	if pc.Baud, err = serial.GetInt("baud", pc.Baud); err != nil {
		return nil, err
	}
	if !validBaud(pc.Baud) {
		return nil, errors.ConfigValidationError("serial", "baud", "unsupported baud rate")
	}
	if pc.Driver == DriverSerial && !serial.HasOption("device") {
		return nil, errors.ConfigOptionError("serial", "device")
	}

	logSec := cfg.GetSectionOptional("log")
	level, err := logSec.GetChoice("level", []string{"debug", "info", "warn", "warning", "error"}, "info")
	if err != nil {
		return nil, err
	}
	pc.LogLevel = log.ParseLevel(level)
	format, err := logSec.GetChoice("format", []string{"text", "json"}, "text")
	if err != nil {
		return nil, err
	}
	pc.LogFormat = log.ParseFormat(format)
	if pc.LogTimeFormat, err = logSec.Get("time_format", ""); err != nil {
		return nil, err
	}
	if pc.LogColor, err = logSec.GetBool("color", pc.LogColor); err != nil {
		return nil, err
	}
	if pc.LogFile, err = logSec.Get("file", ""); err != nil {
		return nil, err
	}
	if pc.LogMaxSize, err = logSec.GetIntWithBounds("max_size", 1, nil, pc.LogMaxSize); err != nil {
		return nil, err
	}
	if pc.LogMaxBackups, err = logSec.GetIntWithBounds("max_backups", 1, nil, pc.LogMaxBackups); err != nil {
		return nil, err
	}

	if err := cfg.CheckUnused(); err != nil {
		return nil, err
	}
	return pc, nil
}

func validBaud(baud int) bool {
	for _, b := range baudRates {
		if b == baud {
			return true
		}
	}
	return false
}
