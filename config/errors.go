package config

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
)

const (
	// ErrorCodeConfigStartNumber is the starting number for configuration-related error codes.
	ErrorCodeConfigStartNumber uint16 = 5500
)

const (
	ErrorCodeConfigInvalidYAML tinygoerrors.ErrorCode = tinygoerrors.ErrorCode(iota + ErrorCodeConfigStartNumber)
	ErrorCodeConfigZeroPWMFrequency
	ErrorCodeConfigInvalidPWMResolution
	ErrorCodeConfigDefaultSpeedOutOfRange
	ErrorCodeConfigInvalidTemperatureThreshold
	ErrorCodeConfigInvalidMinHotPixels
	ErrorCodeConfigZeroCommandTimeout
	ErrorCodeConfigZeroCalibrationSamples
)
