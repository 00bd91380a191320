package toast

import (
	"strconv"
	"time"

	terrors "github.com/vango-dev/toaster/internal/errors"
)

const (
	// DefaultMaxVisible is the number of toasts shown before older ones
	// are hidden.
	DefaultMaxVisible = 3

	// DefaultPosition anchors the stack to the top-right corner.
	DefaultPosition = TopRight

	// DefaultDuration is the auto-dismiss delay.
	DefaultDuration = 3 * time.Second

	// DefaultMountDelay lets entry transitions start from the unmounted
	// state before data-mounted flips.
	DefaultMountDelay = 100 * time.Millisecond

	// DefaultUnmountDelay is the exit animation window before a dismissed
	// toast is detached.
	DefaultUnmountDelay = 500 * time.Millisecond
)

// Config configures a Notifier. Zero fields take their defaults.
type Config struct {
	// MaxVisible is the number of newest toasts marked visible.
	MaxVisible int

	// Position is the initial anchor.
	Position Position

	// Duration is the default auto-dismiss delay. Persistent disables it.
	Duration time.Duration

	// Style overrides are merged over DefaultStyle.
	Style Style

	// MountDelay is the delay before a new toast is marked mounted.
	MountDelay time.Duration

	// UnmountDelay is the exit animation window.
	UnmountDelay time.Duration

	// MaxActive caps the number of live toasts. When exceeded the oldest
	// is dismissed. Zero means unbounded.
	MaxActive int
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{
		MaxVisible:   DefaultMaxVisible,
		Position:     DefaultPosition,
		Duration:     DefaultDuration,
		Style:        DefaultStyle(),
		MountDelay:   DefaultMountDelay,
		UnmountDelay: DefaultUnmountDelay,
	}
}

// withDefaults fills zero fields and merges the style over the defaults.
func (c Config) withDefaults() Config {
	if c.MaxVisible == 0 {
		c.MaxVisible = DefaultMaxVisible
	}
	if c.Position == "" {
		c.Position = DefaultPosition
	}
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	if c.MountDelay == 0 {
		c.MountDelay = DefaultMountDelay
	}
	if c.UnmountDelay == 0 {
		c.UnmountDelay = DefaultUnmountDelay
	}
	c.Style = MergeStyle(DefaultStyle(), c.Style)
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.MaxVisible < 0 {
		return terrors.New("T102").WithField("MaxVisible")
	}
	if c.Position != "" && !c.Position.Valid() {
		return terrors.New("T101").WithField("Position").
			WithDetail(strconv.Quote(string(c.Position)) + " is not a corner position")
	}
	if c.Duration < 0 && c.Duration != Persistent {
		return terrors.New("T103").WithField("Duration")
	}
	if c.MountDelay < 0 {
		return terrors.New("T103").WithField("MountDelay")
	}
	if c.UnmountDelay < 0 {
		return terrors.New("T103").WithField("UnmountDelay")
	}
	if c.MaxActive < 0 {
		return terrors.New("T100").WithField("MaxActive").
			WithDetail("MaxActive must be zero (unbounded) or positive")
	}
	return nil
}
