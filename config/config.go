// Package config holds the startup constants of the robot.
//
// The values are resolved once at boot and must be treated as read-only afterwards.
package config

import (
	"time"

	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	"github.com/ralvarezdev/tinygo-snakebot/hbridge"
	"github.com/ralvarezdev/tinygo-snakebot/thermal"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPWMFrequency              uint32        = 30000
	DefaultPWMResolution             uint8         = 8
	DefaultSpeed                     uint16        = 200
	DefaultTemperatureThreshold      float64       = 6.0
	DefaultMinHotPixels              uint8         = 3
	DefaultCommandTimeout            time.Duration = 1000 * time.Millisecond
	DefaultCalibrationSamples        uint16        = 10
	DefaultCalibrationSettleDelay    time.Duration = 2000 * time.Millisecond
	DefaultCalibrationSampleInterval time.Duration = 100 * time.Millisecond
)

type (
	// Config is the immutable configuration shared by the motor channels and the presence detector
	Config struct {
		PWMFrequency              uint32
		PWMResolution             uint8
		DefaultSpeed              uint16
		TemperatureThreshold      float64
		MinHotPixels              uint8
		CommandTimeout            time.Duration
		CalibrationSamples        uint16
		CalibrationSettleDelay    time.Duration
		CalibrationSampleInterval time.Duration
	}

	// yamlConfig is the YAML layout of Config, durations in milliseconds
	yamlConfig struct {
		PWMFrequency                uint32  `yaml:"pwm_frequency"`
		PWMResolution               uint8   `yaml:"pwm_resolution"`
		DefaultSpeed                uint16  `yaml:"default_speed"`
		TemperatureThreshold        float64 `yaml:"temperature_threshold"`
		MinHotPixels                uint8   `yaml:"min_hot_pixels"`
		CommandTimeoutMs            int64   `yaml:"command_timeout_ms"`
		CalibrationSamples          uint16  `yaml:"calibration_samples"`
		CalibrationSettleDelayMs    int64   `yaml:"calibration_settle_delay_ms"`
		CalibrationSampleIntervalMs int64   `yaml:"calibration_sample_interval_ms"`
	}
)

// Default returns the configuration the firmware ships with
func Default() Config {
	return Config{
		PWMFrequency:              DefaultPWMFrequency,
		PWMResolution:             DefaultPWMResolution,
		DefaultSpeed:              DefaultSpeed,
		TemperatureThreshold:      DefaultTemperatureThreshold,
		MinHotPixels:              DefaultMinHotPixels,
		CommandTimeout:            DefaultCommandTimeout,
		CalibrationSamples:        DefaultCalibrationSamples,
		CalibrationSettleDelay:    DefaultCalibrationSettleDelay,
		CalibrationSampleInterval: DefaultCalibrationSampleInterval,
	}
}

// Parse overlays the YAML document on the default configuration and validates the result
//
// Parameters:
//
// data: The YAML document, keys not present keep their default value
//
// Returns:
//
// The configuration and an error if the document could not be decoded or is invalid
func Parse(data []byte) (Config, tinygoerrors.ErrorCode) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, ErrorCodeConfigInvalidYAML
	}
	return c, c.Validate()
}

// MarshalYAML encodes the configuration with durations in milliseconds
func (c Config) MarshalYAML() (interface{}, error) {
	return &yamlConfig{
		PWMFrequency:                c.PWMFrequency,
		PWMResolution:               c.PWMResolution,
		DefaultSpeed:                c.DefaultSpeed,
		TemperatureThreshold:        c.TemperatureThreshold,
		MinHotPixels:                c.MinHotPixels,
		CommandTimeoutMs:            c.CommandTimeout.Milliseconds(),
		CalibrationSamples:          c.CalibrationSamples,
		CalibrationSettleDelayMs:    c.CalibrationSettleDelay.Milliseconds(),
		CalibrationSampleIntervalMs: c.CalibrationSampleInterval.Milliseconds(),
	}, nil
}

// UnmarshalYAML decodes the configuration keeping the current value of missing keys
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	yc := yamlConfig{
		PWMFrequency:                c.PWMFrequency,
		PWMResolution:               c.PWMResolution,
		DefaultSpeed:                c.DefaultSpeed,
		TemperatureThreshold:        c.TemperatureThreshold,
		MinHotPixels:                c.MinHotPixels,
		CommandTimeoutMs:            c.CommandTimeout.Milliseconds(),
		CalibrationSamples:          c.CalibrationSamples,
		CalibrationSettleDelayMs:    c.CalibrationSettleDelay.Milliseconds(),
		CalibrationSampleIntervalMs: c.CalibrationSampleInterval.Milliseconds(),
	}
	if err := unmarshal(&yc); err != nil {
		return err
	}

	c.PWMFrequency = yc.PWMFrequency
	c.PWMResolution = yc.PWMResolution
	c.DefaultSpeed = yc.DefaultSpeed
	c.TemperatureThreshold = yc.TemperatureThreshold
	c.MinHotPixels = yc.MinHotPixels
	c.CommandTimeout = time.Duration(yc.CommandTimeoutMs) * time.Millisecond
	c.CalibrationSamples = yc.CalibrationSamples
	c.CalibrationSettleDelay = time.Duration(yc.CalibrationSettleDelayMs) * time.Millisecond
	c.CalibrationSampleInterval = time.Duration(yc.CalibrationSampleIntervalMs) * time.Millisecond
	return nil
}

// MaxSpeed returns the highest speed representable by the PWM resolution, 2^resolution - 1
func (c Config) MaxSpeed() uint16 {
	if c.PWMResolution == 0 || c.PWMResolution > hbridge.MaxResolution {
		return 0
	}
	return uint16(uint32(1)<<c.PWMResolution - 1)
}

// Validate checks the configuration values
//
// Returns:
//
// The error code of the first invalid value, otherwise nil.
func (c Config) Validate() tinygoerrors.ErrorCode {
	if c.PWMFrequency == 0 {
		return ErrorCodeConfigZeroPWMFrequency
	}
	if c.PWMResolution == 0 || c.PWMResolution > hbridge.MaxResolution {
		return ErrorCodeConfigInvalidPWMResolution
	}
	if c.DefaultSpeed > c.MaxSpeed() {
		return ErrorCodeConfigDefaultSpeedOutOfRange
	}
	if c.TemperatureThreshold < 0 {
		return ErrorCodeConfigInvalidTemperatureThreshold
	}
	if c.MinHotPixels == 0 || c.MinHotPixels > thermal.PixelCount {
		return ErrorCodeConfigInvalidMinHotPixels
	}
	if c.CommandTimeout <= 0 {
		return ErrorCodeConfigZeroCommandTimeout
	}
	if c.CalibrationSamples == 0 {
		return ErrorCodeConfigZeroCalibrationSamples
	}
	return tinygoerrors.ErrorCodeNil
}
