package toast

import "time"

// Persistent disables auto-dismissal when used as a duration.
const Persistent time.Duration = -1

// Option customizes a single toast.
type Option func(*options)

type options struct {
	title       string
	variant     Variant
	duration    time.Duration
	position    Position
	dismissable *bool
	hideIcon    bool
	onDismiss   func()
}

// WithTitle sets a title shown above the message.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithVariant selects the presentation variant.
func WithVariant(v Variant) Option {
	return func(o *options) {
		o.variant = v
	}
}

// WithDuration overrides the auto-dismiss delay. Persistent keeps the toast
// until it is dismissed.
func WithDuration(d time.Duration) Option {
	return func(o *options) {
		o.duration = d
	}
}

// WithPosition moves the live stack to p before the toast is shown.
func WithPosition(p Position) Option {
	return func(o *options) {
		o.position = p
	}
}

// Dismissable controls whether a dismiss button is rendered.
// Plain toasts default to true, promise toasts to false.
func Dismissable(on bool) Option {
	return func(o *options) {
		o.dismissable = &on
	}
}

// WithoutIcon suppresses the kind icon of a plain toast.
func WithoutIcon() Option {
	return func(o *options) {
		o.hideIcon = true
	}
}

// OnDismiss registers fn to run after the toast is dismissed by the user
// (dismiss button or Notifier.Dismiss). It does not run on auto-expiry.
func OnDismiss(fn func()) Option {
	return func(o *options) {
		o.onDismiss = fn
	}
}

func (n *Notifier) resolve(opts []Option, dismissable bool) options {
	o := options{
		variant:  VariantDefault,
		duration: n.cfg.Duration,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if !o.variant.Valid() {
		n.logger.Warn("unknown toast variant, using default", "variant", string(o.variant))
		o.variant = VariantDefault
	}
	if o.position != "" && !o.position.Valid() {
		n.logger.Warn("ignoring invalid toast position", "position", string(o.position))
		o.position = ""
	}
	if o.duration == 0 {
		o.duration = n.cfg.Duration
	}
	if o.dismissable == nil {
		o.dismissable = &dismissable
	}
	return o
}
