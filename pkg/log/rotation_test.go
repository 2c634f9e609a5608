// Log rotation tests
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingFileWriter(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "printer.log")

	writer, err := NewRotatingFileWriter(RotationConfig{Filename: logFile})
	if err != nil {
		t.Fatalf("failed to create rotating writer: %v", err)
	}
	defer writer.Close()

	msg := "FIRE 3\n"
	n, err := writer.Write([]byte(msg))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != len(msg) {
		t.Errorf("expected %d bytes written, got %d", len(msg), n)
	}
	if writer.CurrentSize() != int64(len(msg)) {
		t.Errorf("expected size %d, got %d", len(msg), writer.CurrentSize())
	}
	if writer.Filename() != logFile {
		t.Errorf("expected filename %s, got %s", logFile, writer.Filename())
	}
}

func TestRotatingFileWriterRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "printer.log")

	writer, err := NewRotatingFileWriter(RotationConfig{Filename: logFile, MaxSize: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("failed to create rotating writer: %v", err)
	}
	defer writer.Close()

	chunk := []byte(strings.Repeat("x", 700) + "\n")
	for i := 0; i < 4; i++ {
		if _, err := writer.Write(chunk); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	for _, name := range []string{"printer.log", "printer.log.1", "printer.log.2"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "printer.log.3")); err == nil {
		t.Error("expected backups beyond MaxBackups to be dropped")
	}
	if writer.CurrentSize() != int64(len(chunk)) {
		t.Errorf("expected active file to hold one chunk, got %d bytes", writer.CurrentSize())
	}
}

func TestNewFileLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	logger, writer, err := NewFileLogger("test", RotationConfig{Filename: logFile})
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}
	defer writer.Close()

	logger.Info("linefeed sent")

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "linefeed sent") {
		t.Errorf("log file missing expected content: %s", content)
	}
	if strings.Contains(string(content), "\x1b[") {
		t.Errorf("file output should not be colorized: %q", content)
	}
}

func TestRotationConfigEmptyFilename(t *testing.T) {
	if _, err := NewRotatingFileWriter(RotationConfig{}); err == nil {
		t.Error("expected error for empty filename")
	}
}
