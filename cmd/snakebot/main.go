//go:build tinygo && (rp2040 || rp2350)

package main

import (
	_ "embed"
	"machine"
	"time"

	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	tinygologger "github.com/ralvarezdev/tinygo-logger"
	tinygopwm "github.com/ralvarezdev/tinygo-pwm"
	"github.com/ralvarezdev/tinygo-snakebot/config"
	"github.com/ralvarezdev/tinygo-snakebot/hbridge"
	"github.com/ralvarezdev/tinygo-snakebot/indicator"
	"github.com/ralvarezdev/tinygo-snakebot/thermal"
	"github.com/ralvarezdev/tinygo-snakebot/watchdog"
	"tinygo.org/x/drivers/amg88xx"
)

// Motor A (left) L298N pins
const (
	MotorAEnablePin = machine.GP2
	MotorAIn1Pin    = machine.GP10
	MotorAIn2Pin    = machine.GP11
)

// Motor B (right) L298N pins
const (
	MotorBEnablePin = machine.GP6
	MotorBIn1Pin    = machine.GP12
	MotorBIn2Pin    = machine.GP13
)

// AMG8833 I2C pins
const (
	I2CSDAPin = machine.GP4
	I2CSCLPin = machine.GP5
)

const (
	// LoggerBufferSize is the size of the logger message buffer
	LoggerBufferSize = 256

	// PollInterval is the period of the control loop
	PollInterval = 100 * time.Millisecond
)

var (
	//go:embed config.yaml
	configYAML []byte

	// Motor PWM slices, GP2 is on slice 1 and GP6 on slice 3
	motorAPWM = machine.PWM1
	motorBPWM = machine.PWM3
)

var (
	// startingMessage is the log message when the firmware starts
	startingMessage = []byte("Snake bot starting")

	// invalidConfigMessage is the log message when the embedded configuration is invalid
	invalidConfigMessage = []byte("Invalid configuration, error code:")

	// defaultSpeedPrefix is the prefix for the log message with the speed commands default to
	defaultSpeedPrefix = []byte("Default motor speed:")

	// motorFailedMessage is the log message when a motor channel could not be started
	motorFailedMessage = []byte("Failed to start motor, error code:")

	// presenceDisabledMessage is the log message when running without the thermal sensor
	presenceDisabledMessage = []byte("Running without presence detection")

	// updateFailedMessage is the log message when a thermal update fails
	updateFailedMessage = []byte("Thermal update failed, error code:")

	// readyMessage is the log message when the control loop starts
	readyMessage = []byte("Snake bot ready")
)

// halt logs the error code and parks the firmware
func halt(logger tinygologger.Logger, message []byte, errCode tinygoerrors.ErrorCode) {
	for {
		logger.ErrorMessageWithErrorCode(message, errCode, true)
		time.Sleep(5 * time.Second)
	}
}

// newMotor creates and starts one motor channel
func newMotor(
	cfg config.Config,
	pwm tinygopwm.PWM,
	enablePin, in1Pin, in2Pin machine.Pin,
	isPolarityInverted bool,
	logger tinygologger.Logger,
) (*hbridge.DefaultHandler, tinygoerrors.ErrorCode) {
	motor, errCode := hbridge.NewDefaultHandler(
		hbridge.MachineOutput(in1Pin),
		hbridge.MachineOutput(in2Pin),
		hbridge.NewMachinePWM(pwm, enablePin),
		cfg.PWMFrequency,
		cfg.PWMResolution,
		isPolarityInverted,
		nil,
		logger,
	)
	if errCode != tinygoerrors.ErrorCodeNil {
		return nil, errCode
	}
	return motor, motor.Begin()
}

func main() {
	logger := tinygologger.NewDefaultLogger(LoggerBufferSize)
	logger.InfoMessage(startingMessage)

	// Resolve the configuration once, it is read-only from here on
	cfg, errCode := config.Parse(configYAML)
	if errCode != tinygoerrors.ErrorCodeNil {
		halt(logger, invalidConfigMessage, errCode)
	}

	// Speed used by drive commands that do not carry one
	logger.AddMessageWithUint32(
		defaultSpeedPrefix,
		uint32(cfg.DefaultSpeed),
		true,
		true,
		false,
	)
	logger.Info()

	// Status LED
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := indicator.NewDefaultIndicator(machine.LED)
	led.Set(false)

	// Motors, the right one is mounted mirrored
	motorA, errCode := newMotor(cfg, motorAPWM, MotorAEnablePin, MotorAIn1Pin, MotorAIn2Pin, false, logger)
	if errCode != tinygoerrors.ErrorCodeNil {
		halt(logger, motorFailedMessage, errCode)
	}
	motorB, errCode := newMotor(cfg, motorBPWM, MotorBEnablePin, MotorBIn1Pin, MotorBIn2Pin, true, logger)
	if errCode != tinygoerrors.ErrorCodeNil {
		halt(logger, motorFailedMessage, errCode)
	}
	motorsWatchdog := watchdog.NewDefaultWatchdog(cfg.CommandTimeout, logger, motorA, motorB)

	// Thermal presence detection, the robot keeps running without it
	var detector *thermal.DefaultHandler
	if err := machine.I2C0.Configure(
		machine.I2CConfig{
			SDA:       I2CSDAPin,
			SCL:       I2CSCLPin,
			Frequency: 400 * machine.KHz,
		},
	); err == nil {
		detector = newDetector(cfg, machine.I2C0, led, logger)
	}
	if detector == nil {
		logger.WarningMessage(presenceDisabledMessage)
	}

	logger.InfoMessage(readyMessage)
	for {
		if detector != nil {
			if errCode = detector.Update(); errCode != tinygoerrors.ErrorCodeNil {
				logger.WarningMessageWithErrorCode(updateFailedMessage, errCode, true)
			}
		}

		// No command source feeds the watchdog yet, so the motors stay stopped
		motorsWatchdog.Check(time.Now())
		time.Sleep(PollInterval)
	}
}

// newDetector creates, starts and calibrates the presence detector
//
// Returns:
//
// The detector, or nil if the sensor could not be started
func newDetector(
	cfg config.Config,
	bus *machine.I2C,
	led *indicator.DefaultIndicator,
	logger tinygologger.Logger,
) *thermal.DefaultHandler {
	sensor, errCode := thermal.NewAMG88xxSensor(bus, amg88xx.AddressHigh)
	if errCode != tinygoerrors.ErrorCodeNil {
		return nil
	}

	detector, errCode := thermal.NewDefaultHandler(
		sensor,
		cfg.TemperatureThreshold,
		cfg.MinHotPixels,
		cfg.CalibrationSamples,
		cfg.CalibrationSettleDelay,
		cfg.CalibrationSampleInterval,
		func(status thermal.Status) {
			led.ShowPresence(status.PresenceDetected)
		},
		logger,
	)
	if errCode != tinygoerrors.ErrorCodeNil {
		return nil
	}

	if errCode = detector.Begin(); errCode != tinygoerrors.ErrorCodeNil {
		return nil
	}
	if errCode = detector.CalibrateAmbient(); errCode != tinygoerrors.ErrorCodeNil {
		return nil
	}
	return detector
}
