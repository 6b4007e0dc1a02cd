package hbridge

type (
	// Direction is an enum to represent the rotation direction of an H-bridge driven motor.
	Direction uint8
)

const (
	DirectionForward Direction = iota
	DirectionBackward
)

// InvertedDirection returns the inverted direction.
func (d Direction) InvertedDirection() Direction {
	if d == DirectionForward {
		return DirectionBackward
	}
	return DirectionForward
}

// String returns the direction name.
func (d Direction) String() string {
	if d == DirectionBackward {
		return "backward"
	}
	return "forward"
}
