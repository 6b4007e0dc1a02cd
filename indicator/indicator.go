// Package indicator mirrors the robot status on a single LED.
package indicator

type (
	// LED is the digital output driving the status LED
	LED interface {
		High()
		Low()
	}

	// DefaultIndicator lights the LED while presence is detected
	DefaultIndicator struct {
		led  LED
		isOn bool
		set  bool
	}
)

// NewDefaultIndicator creates a new instance of DefaultIndicator, a nil LED disables it
func NewDefaultIndicator(led LED) *DefaultIndicator {
	return &DefaultIndicator{led: led}
}

// Set turns the LED on or off, writing the output only when the state changes
func (i *DefaultIndicator) Set(on bool) {
	if i.led == nil || (i.set && i.isOn == on) {
		return
	}

	if on {
		i.led.High()
	} else {
		i.led.Low()
	}
	i.isOn = on
	i.set = true
}

// ShowPresence lights the LED when presence is detected
func (i *DefaultIndicator) ShowPresence(presenceDetected bool) {
	i.Set(presenceDetected)
}

// IsOn returns whether the LED is lit
func (i *DefaultIndicator) IsOn() bool {
	return i.isOn
}
