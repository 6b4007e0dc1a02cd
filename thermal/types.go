package thermal

import (
	"time"

	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	tinygologger "github.com/ralvarezdev/tinygo-logger"
)

const (
	// GridSize is the number of pixels on each side of the thermal grid
	GridSize = 8

	// PixelCount is the number of pixels in a thermal frame
	PixelCount = GridSize * GridSize

	// Float64Precision is the precision for float64 values in log messages
	Float64Precision = 2
)

type (
	// Frame is one 8x8 thermal grid snapshot in degrees Celsius, row-major
	Frame [PixelCount]float64

	// Status is a snapshot of the presence detection state
	Status struct {
		PresenceDetected   bool
		HotPixelCount      uint8
		MaxTemperature     float64
		AmbientTemperature float64
	}

	// DefaultHandler is the default implementation to detect human presence from a thermal sensor.
	//
	// A pixel is hot when it is warmer than the ambient baseline plus the temperature threshold.
	// Presence is asserted while at least minHotPixels pixels are hot, with no hysteresis.
	DefaultHandler struct {
		onPresenceChangeFunc      func(status Status)
		sensor                    Sensor
		temperatureThreshold      float64
		minHotPixels              uint8
		calibrationSamples        uint16
		calibrationSettleDelay    time.Duration
		calibrationSampleInterval time.Duration
		pixels                    Frame
		ambientTemperature        float64
		isCalibrated              bool
		isInitialized             bool
		presenceDetected          bool
		hotPixelCount             uint8
		maxTemperature            float64
		logger                    tinygologger.Logger
	}
)

var (
	// sensorInitializedMessage is the log message when the sensor is configured
	sensorInitializedMessage = []byte("Thermal sensor initialized")

	// sensorNotFoundMessage is the log message when the sensor does not answer
	sensorNotFoundMessage = []byte("Could not find thermal sensor, error code:")

	// calibratingMessage is the log message when the ambient calibration starts
	calibratingMessage = []byte("Calibrating ambient temperature")

	// emptyFieldOfViewMessage is the log message reminding to keep the sensor field of view empty
	emptyFieldOfViewMessage = []byte("Keep the thermal sensor field of view empty during calibration")

	// ambientCalibratedPrefix is the prefix for the log message with the calibrated ambient temperature
	ambientCalibratedPrefix = []byte("Ambient temperature calibrated to:")

	// presenceDetectedPrefix is the prefix for the log message when presence is detected
	presenceDetectedPrefix = []byte("Presence detected, hot pixels:")

	// presenceClearedMessage is the log message when presence is cleared
	presenceClearedMessage = []byte("Presence cleared")
)

// NewDefaultHandler creates a new instance of DefaultHandler
//
// Parameters:
//
// sensor: The thermal sensor to read frames from
// temperatureThreshold: Degrees Celsius above the ambient baseline for a pixel to be hot
// minHotPixels: Minimum number of hot pixels to assert presence
// calibrationSamples: Number of frames averaged by the ambient calibration
// calibrationSettleDelay: Delay before the calibration starts sampling
// calibrationSampleInterval: Delay after each calibration sample
// onPresenceChangeFunc: Function to call once on every presence transition
// logger: The logger to log messages
//
// Returns:
//
// An instance of DefaultHandler and an error if any occurred during initialization
func NewDefaultHandler(
	sensor Sensor,
	temperatureThreshold float64,
	minHotPixels uint8,
	calibrationSamples uint16,
	calibrationSettleDelay time.Duration,
	calibrationSampleInterval time.Duration,
	onPresenceChangeFunc func(status Status),
	logger tinygologger.Logger,
) (*DefaultHandler, tinygoerrors.ErrorCode) {
	// Check the sensor
	if sensor == nil {
		return nil, ErrorCodeThermalNilSensor
	}

	// Check if the temperature threshold is valid
	if temperatureThreshold < 0 {
		return nil, ErrorCodeThermalInvalidTemperatureThreshold
	}

	// Check if the minimum hot pixels fits in the grid
	if minHotPixels == 0 || minHotPixels > PixelCount {
		return nil, ErrorCodeThermalInvalidMinHotPixels
	}

	// Check the calibration samples
	if calibrationSamples == 0 {
		return nil, ErrorCodeThermalZeroCalibrationSamples
	}

	return &DefaultHandler{
		onPresenceChangeFunc:      onPresenceChangeFunc,
		sensor:                    sensor,
		temperatureThreshold:      temperatureThreshold,
		minHotPixels:              minHotPixels,
		calibrationSamples:        calibrationSamples,
		calibrationSettleDelay:    calibrationSettleDelay,
		calibrationSampleInterval: calibrationSampleInterval,
		logger:                    logger,
	}, tinygoerrors.ErrorCodeNil
}

// Begin configures the thermal sensor. A failure is not retried.
//
// Returns:
//
// An error if the sensor could not be configured, otherwise nil.
func (h *DefaultHandler) Begin() tinygoerrors.ErrorCode {
	if errCode := h.sensor.Configure(); errCode != tinygoerrors.ErrorCodeNil {
		if h.logger != nil {
			h.logger.ErrorMessageWithErrorCode(sensorNotFoundMessage, errCode, true)
		}
		return errCode
	}

	if h.logger != nil {
		h.logger.InfoMessage(sensorInitializedMessage)
	}
	h.isInitialized = true
	return tinygoerrors.ErrorCodeNil
}

// CalibrateAmbient sets the ambient baseline to the mean temperature over every pixel of
// calibrationSamples frames.
//
// It blocks for calibrationSettleDelay plus calibrationSamples times calibrationSampleInterval.
// Nobody may be in front of the sensor meanwhile, otherwise every later detection is biased.
//
// Returns:
//
// An error if the sensor is not initialized or a frame could not be read, otherwise nil.
func (h *DefaultHandler) CalibrateAmbient() tinygoerrors.ErrorCode {
	if !h.isInitialized {
		return ErrorCodeThermalNotInitialized
	}

	if h.logger != nil {
		h.logger.InfoMessage(calibratingMessage)
		h.logger.WarningMessage(emptyFieldOfViewMessage)
	}
	time.Sleep(h.calibrationSettleDelay)

	var sum float64
	for i := uint16(0); i < h.calibrationSamples; i++ {
		if errCode := h.sensor.ReadFrame(&h.pixels); errCode != tinygoerrors.ErrorCodeNil {
			return errCode
		}
		for _, temperature := range h.pixels {
			sum += temperature
		}
		time.Sleep(h.calibrationSampleInterval)
	}

	h.ambientTemperature = sum / float64(PixelCount*int(h.calibrationSamples))
	h.isCalibrated = true

	// Log the calibrated ambient temperature
	if h.logger != nil {
		h.logger.AddMessageWithFloat64(
			ambientCalibratedPrefix,
			h.ambientTemperature,
			Float64Precision,
			true,
			true,
		)
		h.logger.Info()
	}
	return tinygoerrors.ErrorCodeNil
}

// Update reads a fresh frame and classifies it.
//
// A single frame decides the result, so a noisy frame can flip it. Transitions are
// logged and reported through onPresenceChangeFunc exactly once.
//
// Returns:
//
// An error if the sensor is not initialized or the frame could not be read, otherwise nil.
// On error the previous status is kept.
func (h *DefaultHandler) Update() tinygoerrors.ErrorCode {
	if !h.isInitialized {
		return ErrorCodeThermalNotInitialized
	}

	if errCode := h.sensor.ReadFrame(&h.pixels); errCode != tinygoerrors.ErrorCodeNil {
		return errCode
	}

	limit := h.ambientTemperature + h.temperatureThreshold
	var hotPixelCount uint8
	var maxTemperature float64
	for _, temperature := range h.pixels {
		if temperature <= limit {
			continue
		}
		if hotPixelCount == 0 || temperature > maxTemperature {
			maxTemperature = temperature
		}
		hotPixelCount++
	}

	wasDetected := h.presenceDetected
	h.hotPixelCount = hotPixelCount
	h.maxTemperature = maxTemperature
	h.presenceDetected = hotPixelCount >= h.minHotPixels

	if h.presenceDetected != wasDetected {
		h.reportTransition()
	}
	return tinygoerrors.ErrorCodeNil
}

// reportTransition logs the presence transition and calls onPresenceChangeFunc
func (h *DefaultHandler) reportTransition() {
	if h.logger != nil {
		if h.presenceDetected {
			h.logger.AddMessageWithUint8(
				presenceDetectedPrefix,
				h.hotPixelCount,
				true,
				true,
				false,
			)
			h.logger.Info()
		} else {
			h.logger.InfoMessage(presenceClearedMessage)
		}
	}

	if h.onPresenceChangeFunc != nil {
		h.onPresenceChangeFunc(h.GetStatus())
	}
}

// GetStatus returns a snapshot of the latest detection result.
func (h *DefaultHandler) GetStatus() Status {
	return Status{
		PresenceDetected:   h.presenceDetected,
		HotPixelCount:      h.hotPixelCount,
		MaxTemperature:     h.maxTemperature,
		AmbientTemperature: h.ambientTemperature,
	}
}

// IsPresenceDetected returns whether presence was detected by the last update.
func (h *DefaultHandler) IsPresenceDetected() bool {
	return h.presenceDetected
}

// GetHotPixelCount returns the number of hot pixels in the last frame.
func (h *DefaultHandler) GetHotPixelCount() uint8 {
	return h.hotPixelCount
}

// GetMaxTemperature returns the hottest hot pixel of the last frame, or 0 if none was hot.
func (h *DefaultHandler) GetMaxTemperature() float64 {
	return h.maxTemperature
}

// GetAmbientTemperature returns the ambient baseline, 0 before calibration.
func (h *DefaultHandler) GetAmbientTemperature() float64 {
	return h.ambientTemperature
}

// IsCalibrated returns whether the ambient baseline was calibrated.
//
// Before calibration the baseline is 0 and detection is overly sensitive.
func (h *DefaultHandler) IsCalibrated() bool {
	return h.isCalibrated
}

// GetPixels returns a copy of the last frame read from the sensor.
func (h *DefaultHandler) GetPixels() Frame {
	return h.pixels
}
