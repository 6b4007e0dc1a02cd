package thermal

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
)

const (
	// ErrorCodeThermalStartNumber is the starting number for thermal presence-related error codes.
	ErrorCodeThermalStartNumber uint16 = 5400
)

const (
	ErrorCodeThermalSensorNotFound tinygoerrors.ErrorCode = tinygoerrors.ErrorCode(iota + ErrorCodeThermalStartNumber)
	ErrorCodeThermalNotInitialized
	ErrorCodeThermalNilSensor
	ErrorCodeThermalNilBus
	ErrorCodeThermalInvalidTemperatureThreshold
	ErrorCodeThermalInvalidMinHotPixels
	ErrorCodeThermalZeroCalibrationSamples
	ErrorCodeThermalFailedToReadFrame
)
