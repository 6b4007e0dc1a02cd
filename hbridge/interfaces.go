package hbridge

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
)

type (
	// Output is a digital output wired to one of the H-bridge direction inputs
	Output interface {
		Configure()
		High()
		Low()
	}

	// PWM is the PWM output wired to the H-bridge enable input
	PWM interface {
		Configure(frequency uint32) tinygoerrors.ErrorCode
		SetDuty(pulse, period uint32)
	}

	// Handler is the interface to handle H-bridge motor operations
	Handler interface {
		Begin() tinygoerrors.ErrorCode
		Forward(speed uint16)
		Backward(speed uint16)
		Stop()
		GetCurrentSpeed() uint16
		GetDirection() Direction
		IsMovingForward() bool
	}
)
