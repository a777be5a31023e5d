package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig creates a temporary config file with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
capture:
  capture_width: 1280
  capture_height: 720
  display_width: 960
  display_height: 540
  framerate: 30
  flip_method: 2
actuator:
  i2c_bus: "6"
  i2c_addr: 0x0c
  mock: true
focus:
  start_step: 10
  step_size: 10
  decline_threshold: 6
  upper_bound: 1020
defaults:
  debug_level: 1
  window_title: "CSI Camera"
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Capture.CaptureWidth != 1280 {
		t.Errorf("capture_width = %d, want 1280", cfg.Capture.CaptureWidth)
	}
	if cfg.Capture.DisplayHeight != 540 {
		t.Errorf("display_height = %d, want 540", cfg.Capture.DisplayHeight)
	}
	if cfg.Capture.Framerate != 30 {
		t.Errorf("framerate = %d, want 30", cfg.Capture.Framerate)
	}
	if cfg.Capture.FlipMethod != 2 {
		t.Errorf("flip_method = %d, want 2", cfg.Capture.FlipMethod)
	}
	if cfg.Actuator.I2CBus != "6" {
		t.Errorf("i2c_bus = %q, want %q", cfg.Actuator.I2CBus, "6")
	}
	if cfg.Actuator.I2CAddr != 0x0c {
		t.Errorf("i2c_addr = %#x, want 0x0c", cfg.Actuator.I2CAddr)
	}
	if !cfg.Actuator.Mock {
		t.Error("actuator.mock should be true")
	}
	if cfg.Focus.DeclineThreshold != 6 {
		t.Errorf("decline_threshold = %d, want 6", cfg.Focus.DeclineThreshold)
	}
	if cfg.Defaults.DebugLevel != 1 {
		t.Errorf("debug_level = %d, want 1", cfg.Defaults.DebugLevel)
	}
}

func TestLoad_EmptyConfigGetsDefaults(t *testing.T) {
	path := writeConfig(t, "{}")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Capture.CaptureWidth != 1280 || cfg.Capture.CaptureHeight != 720 {
		t.Errorf("capture defaults = %dx%d, want 1280x720",
			cfg.Capture.CaptureWidth, cfg.Capture.CaptureHeight)
	}
	if cfg.Capture.Framerate != 60 {
		t.Errorf("framerate default = %d, want 60", cfg.Capture.Framerate)
	}
	if cfg.Actuator.I2CBus != "6" {
		t.Errorf("i2c_bus default = %q, want %q", cfg.Actuator.I2CBus, "6")
	}
	if cfg.Actuator.I2CAddr != 0x0c {
		t.Errorf("i2c_addr default = %#x, want 0x0c", cfg.Actuator.I2CAddr)
	}
	if cfg.Focus.StartStep != 10 {
		t.Errorf("start_step default = %d, want 10", cfg.Focus.StartStep)
	}
	if cfg.Focus.StepSize != 10 {
		t.Errorf("step_size default = %d, want 10", cfg.Focus.StepSize)
	}
	if cfg.Focus.DeclineThreshold != 6 {
		t.Errorf("decline_threshold default = %d, want 6", cfg.Focus.DeclineThreshold)
	}
	if cfg.Focus.UpperBound != 1020 {
		t.Errorf("upper_bound default = %d, want 1020", cfg.Focus.UpperBound)
	}
	if cfg.Defaults.WindowTitle != "CSI Camera" {
		t.Errorf("window_title default = %q, want %q", cfg.Defaults.WindowTitle, "CSI Camera")
	}
}

func TestLoad_InvalidFlipMethod(t *testing.T) {
	path := writeConfig(t, `
capture:
  flip_method: 8
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for flip_method 8, got nil")
	}
}

func TestLoad_InvalidI2CAddr(t *testing.T) {
	path := writeConfig(t, `
actuator:
  i2c_addr: 0x90
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for i2c_addr above 7-bit range, got nil")
	}
}

func TestLoad_UpperBoundAboveMax(t *testing.T) {
	path := writeConfig(t, `
focus:
  upper_bound: 1024
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for upper_bound > 1023, got nil")
	}
}

func TestLoad_StartAboveUpperBound(t *testing.T) {
	path := writeConfig(t, `
focus:
  start_step: 1021
  upper_bound: 1020
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for start_step > upper_bound, got nil")
	}
}

func TestLoad_InvalidDebugLevel(t *testing.T) {
	path := writeConfig(t, `
defaults:
  debug_level: 5
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for debug_level 5, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "capture: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML, got nil")
	}
}
