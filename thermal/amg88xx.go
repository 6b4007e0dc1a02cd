package thermal

import (
	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/amg88xx"
)

type (
	// AMG88xxSensor is a Sensor backed by an AMG88xx (Grid-EYE) thermal camera on an I2C bus
	AMG88xxSensor struct {
		bus        drivers.I2C
		device     amg88xx.Device
		data       [2 * PixelCount]byte
		configured bool
	}
)

const (
	// celsiusPerLSB is the resolution of a pixel reading
	celsiusPerLSB = 0.25

	// pixelSignBit marks a negative pixel reading, the remaining 11 bits are the magnitude
	pixelSignBit = 1 << 11
)

// NewAMG88xxSensor creates a new instance of AMG88xxSensor
//
// Parameters:
//
// bus: The already configured I2C bus the sensor is connected to
// address: The I2C address of the sensor, zero selects amg88xx.AddressHigh
//
// Returns:
//
// An instance of AMG88xxSensor and an error if the bus is nil
func NewAMG88xxSensor(bus drivers.I2C, address uint16) (*AMG88xxSensor, tinygoerrors.ErrorCode) {
	if bus == nil {
		return nil, ErrorCodeThermalNilBus
	}

	device := amg88xx.New(bus)
	if address != 0 {
		device.Address = address
	}

	return &AMG88xxSensor{
		bus:    bus,
		device: device,
	}, tinygoerrors.ErrorCodeNil
}

// Configure checks the sensor answers on the bus and sets it to normal mode at 10 FPS.
//
// Returns:
//
// ErrorCodeThermalSensorNotFound if the sensor does not answer, otherwise nil.
func (s *AMG88xxSensor) Configure() tinygoerrors.ErrorCode {
	// The driver ignores bus errors, so probe the power control register first
	probe := make([]byte, 1)
	if err := s.bus.Tx(s.device.Address, []byte{amg88xx.PCTL}, probe); err != nil {
		return ErrorCodeThermalSensorNotFound
	}

	s.device.Configure(amg88xx.Config{})
	s.configured = true
	return tinygoerrors.ErrorCodeNil
}

// ReadFrame reads the 64 pixels of the sensor in degrees Celsius.
//
// The pixel registers are read directly, the driver ReadPixels scales to millicelsius
// in an int16 and wraps above 32.75 degrees.
//
// Parameters:
//
// frame: The frame to overwrite with the readings
//
// Returns:
//
// ErrorCodeThermalNotInitialized if Configure did not succeed, ErrorCodeThermalFailedToReadFrame
// if the bus transaction fails, otherwise nil. The frame is left untouched on error.
func (s *AMG88xxSensor) ReadFrame(frame *Frame) tinygoerrors.ErrorCode {
	if !s.configured {
		return ErrorCodeThermalNotInitialized
	}

	if err := s.bus.Tx(s.device.Address, []byte{amg88xx.PIXEL_OFFSET}, s.data[:]); err != nil {
		return ErrorCodeThermalFailedToReadFrame
	}

	for i := range frame {
		frame[i] = pixelToCelsius(s.data[2*i], s.data[2*i+1])
	}
	return tinygoerrors.ErrorCodeNil
}

// pixelToCelsius converts a 12-bit sign-magnitude pixel reading to degrees Celsius
func pixelToCelsius(low, high byte) float64 {
	raw := uint16(high)<<8 | uint16(low)
	magnitude := float64(raw&(pixelSignBit-1)) * celsiusPerLSB
	if raw&pixelSignBit != 0 {
		return -magnitude
	}
	return magnitude
}
