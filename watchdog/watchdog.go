// Package watchdog stops the motors when drive commands stop arriving.
package watchdog

import (
	"time"

	tinygologger "github.com/ralvarezdev/tinygo-logger"
)

type (
	// Stopper is anything that can be brought to a safe stop, such as a motor channel
	Stopper interface {
		Stop()
	}

	// DefaultWatchdog stops every target once when no command was fed within the timeout
	DefaultWatchdog struct {
		targets  []Stopper
		timeout  time.Duration
		lastFeed time.Time
		tripped  bool
		logger   tinygologger.Logger
	}
)

var (
	// trippedPrefix is the prefix for the log message when the watchdog stops the targets
	trippedPrefix = []byte("Command timeout, stopping motors after ms:")
)

// NewDefaultWatchdog creates a new instance of DefaultWatchdog
//
// Parameters:
//
// timeout: Maximum time between two commands before stopping the targets
// logger: The logger to log messages
// targets: The targets to stop
//
// Returns:
//
// An instance of DefaultWatchdog, armed from the zero time
func NewDefaultWatchdog(
	timeout time.Duration,
	logger tinygologger.Logger,
	targets ...Stopper,
) *DefaultWatchdog {
	return &DefaultWatchdog{
		targets: targets,
		timeout: timeout,
		logger:  logger,
	}
}

// Feed records that a command was received and re-arms the watchdog
func (w *DefaultWatchdog) Feed(now time.Time) {
	w.lastFeed = now
	w.tripped = false
}

// Check stops every target if the timeout elapsed since the last feed.
//
// The targets are stopped once per expiry, later checks do nothing until the next feed.
//
// Returns:
//
// True if this check stopped the targets.
func (w *DefaultWatchdog) Check(now time.Time) bool {
	if w.tripped {
		return false
	}

	elapsed := now.Sub(w.lastFeed)
	if elapsed < w.timeout {
		return false
	}

	for _, target := range w.targets {
		target.Stop()
	}
	w.tripped = true

	if w.logger != nil {
		w.logger.AddMessageWithUint64(
			trippedPrefix,
			uint64(elapsed.Milliseconds()),
			true,
			true,
			false,
		)
		w.logger.Warning()
	}
	return true
}

// IsTripped returns whether the targets were stopped since the last feed
func (w *DefaultWatchdog) IsTripped() bool {
	return w.tripped
}
