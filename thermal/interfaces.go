package thermal

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
)

type (
	// Sensor is the interface of a thermal imaging sensor producing 8x8 frames
	Sensor interface {
		Configure() tinygoerrors.ErrorCode
		ReadFrame(frame *Frame) tinygoerrors.ErrorCode
	}

	// Handler is the interface to handle thermal presence detection
	Handler interface {
		Begin() tinygoerrors.ErrorCode
		CalibrateAmbient() tinygoerrors.ErrorCode
		Update() tinygoerrors.ErrorCode
		GetStatus() Status
		IsPresenceDetected() bool
		GetPixels() Frame
	}
)
