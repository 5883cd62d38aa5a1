package logger

import (
	"bytes"
	"strings"
	"testing"
)

func resetLogger() {
	Init(Options{})
}

func TestInit_DefaultLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("info line")
	if !strings.Contains(buf.String(), "info line") {
		t.Error("Info message should be logged at default level")
	}

	buf.Reset()

	Debug("debug line")
	if strings.Contains(buf.String(), "debug line") {
		t.Error("Debug message should not be logged at default level")
	}
}

func TestInit_DebugLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	Debug("debug line")
	if !strings.Contains(buf.String(), "debug line") {
		t.Error("Debug message should be logged when Debug=true")
	}
}

func TestWarnAndError(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Warn("warn line")
	Error("error line")

	output := buf.String()
	if !strings.Contains(output, "warn line") {
		t.Error("Warn message should be logged")
	}
	if !strings.Contains(output, "error line") {
		t.Error("Error message should be logged")
	}
}

func TestStructuredArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("fetched page", "pageID", "12345", "bytes", 1024)

	output := buf.String()
	for _, want := range []string{"fetched page", "pageID", "12345", "1024"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got %q", want, output)
		}
	}
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	l := With("component", "sync")
	if l == nil {
		t.Fatal("With() returned nil")
	}

	l.Info("starting")

	output := buf.String()
	if !strings.Contains(output, "component") || !strings.Contains(output, "sync") {
		t.Error("expected attached attributes in output")
	}
}
