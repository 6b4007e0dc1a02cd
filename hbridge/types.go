package hbridge

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	tinygologger "github.com/ralvarezdev/tinygo-logger"
)

type (
	// DefaultHandler is the default implementation to handle a DC motor through an H-bridge.
	//
	// Two digital outputs select the direction and one PWM output sets the speed as its duty cycle.
	DefaultHandler struct {
		afterSetSpeedFunc  func(speed uint16, direction Direction)
		isPolarityInverted bool
		frequency          uint32
		resolution         uint8
		maxSpeed           uint16
		speed              uint16
		direction          Direction
		in1                Output
		in2                Output
		pwm                PWM
		logger             tinygologger.Logger
	}
)

const (
	// MaxResolution is the maximum supported PWM duty resolution in bits
	MaxResolution = 16
)

var (
	// beginPrefix is the prefix for the log message when the motor outputs are configured
	beginPrefix = []byte("Configured H-bridge motor PWM frequency to:")

	// forwardPrefix is the prefix for the log message when setting speed forward
	forwardPrefix = []byte("Set H-bridge motor speed forward to:")

	// backwardPrefix is the prefix for the log message when setting speed backward
	backwardPrefix = []byte("Set H-bridge motor speed backward to:")

	// clampedSpeedPrefix is the prefix for the log message when a speed is clamped to the maximum
	clampedSpeedPrefix = []byte("H-bridge motor speed clamped to:")

	// stopMessage is the log message when stopping the motor
	stopMessage = []byte("Stop H-bridge motor")
)

// NewDefaultHandler creates a new instance of DefaultHandler
//
// Parameters:
//
// in1: The output connected to the first direction input of the H-bridge
// in2: The output connected to the second direction input of the H-bridge
// pwm: The PWM output connected to the enable input of the H-bridge
// frequency: Frequency for the PWM signal in Hz
// resolution: Duty resolution in bits, the speed range is 0 to 2^resolution - 1
// isPolarityInverted: Whether the motor is wired or mounted mirrored
// afterSetSpeedFunc: Function to call after the speed or direction changes
// logger: The logger to log messages
//
// Returns:
//
// An instance of DefaultHandler and an error if any occurred during initialization
func NewDefaultHandler(
	in1 Output,
	in2 Output,
	pwm PWM,
	frequency uint32,
	resolution uint8,
	isPolarityInverted bool,
	afterSetSpeedFunc func(speed uint16, direction Direction),
	logger tinygologger.Logger,
) (*DefaultHandler, tinygoerrors.ErrorCode) {
	// Check the outputs
	if in1 == nil || in2 == nil {
		return nil, ErrorCodeHBridgeNilOutput
	}
	if pwm == nil {
		return nil, ErrorCodeHBridgeNilPWM
	}

	// Check if the frequency is zero
	if frequency == 0 {
		return nil, ErrorCodeHBridgeZeroFrequency
	}

	// Check if the resolution is supported
	if resolution == 0 || resolution > MaxResolution {
		return nil, ErrorCodeHBridgeInvalidResolution
	}

	return &DefaultHandler{
		afterSetSpeedFunc:  afterSetSpeedFunc,
		isPolarityInverted: isPolarityInverted,
		frequency:          frequency,
		resolution:         resolution,
		maxSpeed:           uint16(uint32(1)<<resolution - 1),
		direction:          DirectionForward,
		in1:                in1,
		in2:                in2,
		pwm:                pwm,
		logger:             logger,
	}, tinygoerrors.ErrorCodeNil
}

// Begin configures the direction outputs and the PWM output, and stops the motor.
//
// Returns:
//
// An error if the PWM could not be configured, otherwise nil.
func (h *DefaultHandler) Begin() tinygoerrors.ErrorCode {
	h.in1.Configure()
	h.in2.Configure()

	if errCode := h.pwm.Configure(h.frequency); errCode != tinygoerrors.ErrorCodeNil {
		return errCode
	}

	// Log the configured frequency
	if h.logger != nil {
		h.logger.AddMessageWithUint32(
			beginPrefix,
			h.frequency,
			true,
			true,
			false,
		)
		h.logger.Debug()
	}

	// Stop the motor initially
	h.Stop()
	return tinygoerrors.ErrorCodeNil
}

// clampSpeed limits the speed to the range representable by the PWM resolution
//
// Parameters:
//
// speed: The requested speed
//
// Returns:
//
// The speed clamped to the maximum speed
func (h *DefaultHandler) clampSpeed(speed uint16) uint16 {
	if speed <= h.maxSpeed {
		return speed
	}

	// Log the clamped speed
	if h.logger != nil {
		h.logger.AddMessageWithUint32(
			clampedSpeedPrefix,
			uint32(h.maxSpeed),
			true,
			true,
			false,
		)
		h.logger.Warning()
	}
	return h.maxSpeed
}

// writeDirection sets the direction outputs for the given logical direction
//
// Parameters:
//
// direction: The logical direction of the motor
func (h *DefaultHandler) writeDirection(direction Direction) {
	// Mirrored motors spin the other way for the same pin pattern
	if h.isPolarityInverted {
		direction = direction.InvertedDirection()
	}

	if direction == DirectionForward {
		h.in1.High()
		h.in2.Low()
	} else {
		h.in1.Low()
		h.in2.High()
	}
}

// SetSpeed sets the H-bridge motor speed and direction.
//
// Speeds above the maximum speed are clamped to it. A zero speed still
// records the direction.
//
// Parameters:
//
// speed: Speed value between 0 (stop) and the maximum speed.
// direction: Direction of the motor.
func (h *DefaultHandler) SetSpeed(speed uint16, direction Direction) {
	speed = h.clampSpeed(speed)

	h.writeDirection(direction)
	h.pwm.SetDuty(uint32(speed), uint32(h.maxSpeed))
	h.speed = speed
	h.direction = direction

	// Log the speed change
	if h.logger != nil {
		prefix := forwardPrefix
		if direction == DirectionBackward {
			prefix = backwardPrefix
		}
		h.logger.AddMessageWithUint32(
			prefix,
			uint32(speed),
			true,
			true,
			false,
		)
		h.logger.Debug()
	}

	// Call the after set speed function if provided
	if h.afterSetSpeedFunc != nil {
		h.afterSetSpeedFunc(h.speed, h.direction)
	}
}

// Forward sets the H-bridge motor speed forward.
//
// Parameters:
//
// speed: Speed value between 0 (stop) and the maximum speed.
func (h *DefaultHandler) Forward(speed uint16) {
	h.SetSpeed(speed, DirectionForward)
}

// Backward sets the H-bridge motor speed backward.
//
// Parameters:
//
// speed: Speed value between 0 (stop) and the maximum speed.
func (h *DefaultHandler) Backward(speed uint16) {
	h.SetSpeed(speed, DirectionBackward)
}

// Stop pulls both direction outputs low and sets the duty to zero.
//
// The recorded direction is left unchanged. It is safe to call any number of times.
func (h *DefaultHandler) Stop() {
	h.in1.Low()
	h.in2.Low()
	h.pwm.SetDuty(0, uint32(h.maxSpeed))
	h.speed = 0

	if h.logger != nil {
		h.logger.DebugMessage(stopMessage)
	}

	if h.afterSetSpeedFunc != nil {
		h.afterSetSpeedFunc(h.speed, h.direction)
	}
}

// GetCurrentSpeed returns the current speed of the motor.
func (h *DefaultHandler) GetCurrentSpeed() uint16 {
	return h.speed
}

// GetDirection returns the last commanded direction of the motor.
func (h *DefaultHandler) GetDirection() Direction {
	return h.direction
}

// IsMovingForward reports whether the last commanded direction is forward.
//
// It stays true after a stop, the speed tells whether the motor is moving.
func (h *DefaultHandler) IsMovingForward() bool {
	return h.direction == DirectionForward
}

// IsStopped reports whether the current speed is zero.
func (h *DefaultHandler) IsStopped() bool {
	return h.speed == 0
}

// GetMaxSpeed returns the maximum speed allowed by the PWM resolution.
func (h *DefaultHandler) GetMaxSpeed() uint16 {
	return h.maxSpeed
}
