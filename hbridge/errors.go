package hbridge

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
)

const (
	// ErrorCodeHBridgeStartNumber is the starting number for H-bridge motor-related error codes.
	ErrorCodeHBridgeStartNumber uint16 = 5300
)

const (
	ErrorCodeHBridgeFailedToConfigurePWM tinygoerrors.ErrorCode = tinygoerrors.ErrorCode(iota + ErrorCodeHBridgeStartNumber)
	ErrorCodeHBridgeZeroFrequency
	ErrorCodeHBridgeInvalidResolution
	ErrorCodeHBridgeNilOutput
	ErrorCodeHBridgeNilPWM
	ErrorCodeHBridgeFailedToGetPWMChannel
)
