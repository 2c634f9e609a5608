// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"
)

func TestHostErrorFormat(t *testing.T) {
	tests := []struct {
		err  *HostError
		want string
	}{
		{New(ErrRuntime, "boom"), "[RUNTIME] boom"},
		{ConfigSectionError("serial"), "[CONFIG_SECTION:serial] section 'serial' not found"},
		{ConfigOptionError("serial", "device"), "[CONFIG_OPTION:device] option 'device' not found in section 'serial'"},
		{UnsupportedLengthError("solenoid", 4, "exactly 8 columns"), "[UNSUPPORTED_LENGTH:solenoid] line length 4 unsupported, need exactly 8 columns"},
		{InvalidLineError(-1, 0), "[INVALID_LINE] line is empty"},
		{InvalidLineError(2, '2'), "[INVALID_LINE] symbol '2' at column 2 is not '0' or '1'"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestContext(t *testing.T) {
	err := SchedulingStalledError("hammer", 30, 4)
	if err.Context["steps"] != 30 || err.Context["pending"] != 4 {
		t.Errorf("unexpected context %v", err.Context)
	}
	if err.Section != "hammer" {
		t.Errorf("expected section 'hammer', got %q", err.Section)
	}

	line := InvalidLineError(5, 'x')
	if line.Context["position"] != 5 || line.Context["symbol"] != "x" {
		t.Errorf("unexpected context %v", line.Context)
	}
}

func TestIsThroughWrapping(t *testing.T) {
	base := DriverError("serial", io.ErrClosedPipe)
	wrapped := fmt.Errorf("print line: %w", base)

	if !Is(wrapped, ErrDriverIO) {
		t.Error("expected DRIVER_IO through fmt wrapping")
	}
	if Is(wrapped, ErrRuntime) {
		t.Error("unexpected RUNTIME match")
	}
	if !stderrors.Is(wrapped, io.ErrClosedPipe) {
		t.Error("expected the cause to stay reachable")
	}

	nested := Wrap(ConfigTypeError("printer", "retry_limit", "x", "integer", nil), ErrRuntime, "startup")
	if !Is(nested, ErrConfigType) || !Is(nested, ErrRuntime) {
		t.Error("expected both codes in a nested chain")
	}
	if Is(nil, ErrRuntime) || Is(io.EOF, ErrRuntime) {
		t.Error("plain errors carry no code")
	}
}

func TestCategories(t *testing.T) {
	if !IsConfig(ConfigValidationError("printer", "driver", "bad")) {
		t.Error("expected validation error to be a config error")
	}
	if IsConfig(InvalidLineError(0, 'a')) {
		t.Error("line errors are not config errors")
	}
	if !IsInput(UnsupportedLengthError("hammer", 3, "at least 5 columns")) {
		t.Error("expected length error to be an input error")
	}
	if IsInput(SchedulingStalledError("hammer", 1, 1)) {
		t.Error("stalls are not input errors")
	}
}

func TestTraceError(t *testing.T) {
	err := TraceError(3, "column 1 fired twice")
	if err.Error() != "[TRACE_INVALID] event 3: column 1 fired twice" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
