//go:build tinygo && (rp2040 || rp2350)

package hbridge

import (
	"machine"

	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	tinygopwm "github.com/ralvarezdev/tinygo-pwm"
)

type (
	// MachineOutput is an Output backed by a board GPIO pin
	MachineOutput machine.Pin

	// MachinePWM is a PWM backed by a board PWM slice and the channel of one pin
	MachinePWM struct {
		pwm     tinygopwm.PWM
		pin     machine.Pin
		channel uint8
	}
)

// Configure sets the pin as a digital output
func (o MachineOutput) Configure() {
	machine.Pin(o).Configure(machine.PinConfig{Mode: machine.PinOutput})
}

// High drives the pin high
func (o MachineOutput) High() {
	machine.Pin(o).High()
}

// Low drives the pin low
func (o MachineOutput) Low() {
	machine.Pin(o).Low()
}

// NewMachinePWM creates a new instance of MachinePWM
//
// Parameters:
//
// pwm: The PWM slice the pin belongs to
// pin: The pin connected to the H-bridge enable input
//
// Returns:
//
// An instance of MachinePWM
func NewMachinePWM(pwm tinygopwm.PWM, pin machine.Pin) *MachinePWM {
	return &MachinePWM{
		pwm: pwm,
		pin: pin,
	}
}

// Configure sets the PWM period for the given frequency and gets the pin channel.
//
// Parameters:
//
// frequency: Frequency for the PWM signal in Hz
//
// Returns:
//
// An error if the PWM could not be configured, otherwise nil.
func (m *MachinePWM) Configure(frequency uint32) tinygoerrors.ErrorCode {
	if frequency == 0 {
		return ErrorCodeHBridgeZeroFrequency
	}

	period := 1e9 / float64(frequency)
	if err := m.pwm.Configure(
		machine.PWMConfig{
			Period: uint64(period),
		},
	); err != nil {
		return ErrorCodeHBridgeFailedToConfigurePWM
	}

	channel, err := m.pwm.Channel(m.pin)
	if err != nil {
		return ErrorCodeHBridgeFailedToGetPWMChannel
	}
	m.channel = channel
	return tinygoerrors.ErrorCodeNil
}

// SetDuty sets the duty cycle to pulse/period of the PWM top value
func (m *MachinePWM) SetDuty(pulse, period uint32) {
	tinygopwm.SetDuty(m.pwm, m.channel, pulse, period)
}
