package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaptureConfig holds the GStreamer capture pipeline parameters.
// All values are passed through to the pipeline string; the focus
// algorithm itself does not depend on them.
type CaptureConfig struct {
	CaptureWidth  int `yaml:"capture_width"`
	CaptureHeight int `yaml:"capture_height"`
	DisplayWidth  int `yaml:"display_width"`
	DisplayHeight int `yaml:"display_height"`
	Framerate     int `yaml:"framerate"`
	FlipMethod    int `yaml:"flip_method"`
}

// ActuatorConfig describes how to reach the lens VCM over I²C.
type ActuatorConfig struct {
	I2CBus  string `yaml:"i2c_bus"`  // bus name, e.g. "6" for /dev/i2c-6 on Jetson Nano
	I2CAddr uint16 `yaml:"i2c_addr"` // device address, e.g. 0x0c for IMX219-AF
	Mock    bool   `yaml:"mock"`     // use mock transport (true=dev/test, false=real hardware)
}

// FocusConfig contains the search algorithm tuning parameters.
type FocusConfig struct {
	StartStep        int `yaml:"start_step"`        // first step of the sweep
	StepSize         int `yaml:"step_size"`         // sweep increment, matches VCM granularity
	DeclineThreshold int `yaml:"decline_threshold"` // consecutive non-improving frames before stopping
	UpperBound       int `yaml:"upper_bound"`       // sweep headroom below the 1023 hardware max
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel  int    `yaml:"debug_level"`  // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	WindowTitle string `yaml:"window_title"` // preview window title
}

// Config aggregates all application configuration.
type Config struct {
	Capture  CaptureConfig  `yaml:"capture"`
	Actuator ActuatorConfig `yaml:"actuator"`
	Focus    FocusConfig    `yaml:"focus"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Capture defaults match the reference IMX219 CSI deployment.
	if cfg.Capture.CaptureWidth <= 0 {
		cfg.Capture.CaptureWidth = 1280
	}
	if cfg.Capture.CaptureHeight <= 0 {
		cfg.Capture.CaptureHeight = 720
	}
	if cfg.Capture.DisplayWidth <= 0 {
		cfg.Capture.DisplayWidth = 1280
	}
	if cfg.Capture.DisplayHeight <= 0 {
		cfg.Capture.DisplayHeight = 720
	}
	if cfg.Capture.Framerate <= 0 {
		cfg.Capture.Framerate = 60
	}
	if cfg.Capture.FlipMethod < 0 || cfg.Capture.FlipMethod > 7 {
		return nil, fmt.Errorf("flip_method must be 0-7, got %d", cfg.Capture.FlipMethod)
	}

	if cfg.Actuator.I2CBus == "" {
		cfg.Actuator.I2CBus = "6"
	}
	if cfg.Actuator.I2CAddr == 0 {
		cfg.Actuator.I2CAddr = 0x0c
	}
	if cfg.Actuator.I2CAddr > 0x7f {
		return nil, fmt.Errorf("i2c_addr must be a 7-bit address, got %#x", cfg.Actuator.I2CAddr)
	}

	if cfg.Focus.StartStep <= 0 {
		cfg.Focus.StartStep = 10
	}
	if cfg.Focus.StepSize <= 0 {
		cfg.Focus.StepSize = 10
	}
	if cfg.Focus.DeclineThreshold <= 0 {
		cfg.Focus.DeclineThreshold = 6
	}
	if cfg.Focus.UpperBound <= 0 {
		cfg.Focus.UpperBound = 1020
	}
	if cfg.Focus.UpperBound > 1023 {
		return nil, fmt.Errorf("upper_bound must be <= 1023, got %d", cfg.Focus.UpperBound)
	}
	if cfg.Focus.StartStep > cfg.Focus.UpperBound {
		return nil, fmt.Errorf("start_step (%d) must be <= upper_bound (%d)",
			cfg.Focus.StartStep, cfg.Focus.UpperBound)
	}

	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be 0-4, got %d", cfg.Defaults.DebugLevel)
	}
	if cfg.Defaults.WindowTitle == "" {
		cfg.Defaults.WindowTitle = "CSI Camera"
	}

	return &cfg, nil
}
