package toast

import (
	"strconv"
	"strings"
	"time"

	terrors "github.com/vango-dev/toaster/internal/errors"
)

// EventName is the event name under which toast events are exchanged with
// clients.
const EventName = "toaster:toast"

// Event is the wire form of a toast request.
//
//	{"level": "success", "title": "Settings", "message": "Saved", "duration": 5000}
type Event struct {
	Level       string `json:"level" yaml:"level"`
	Message     string `json:"message" yaml:"message"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Variant     string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Position    string `json:"position,omitempty" yaml:"position,omitempty"`
	Duration    int64  `json:"duration,omitempty" yaml:"duration,omitempty"` // milliseconds, negative for persistent
	Dismissable *bool  `json:"dismissable,omitempty" yaml:"dismissable,omitempty"`
}

// Options converts the event fields into toast options.
func (e Event) Options() ([]Option, error) {
	var opts []Option
	if e.Title != "" {
		opts = append(opts, WithTitle(e.Title))
	}
	if e.Variant != "" {
		v := Variant(strings.ToLower(e.Variant))
		if !v.Valid() {
			return nil, terrors.New("T104").WithField("variant").
				WithDetail(strconv.Quote(e.Variant) + " is not one of default, outline, filled")
		}
		opts = append(opts, WithVariant(v))
	}
	if e.Position != "" {
		p, err := ParsePosition(e.Position)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPosition(p))
	}
	switch {
	case e.Duration < 0:
		opts = append(opts, WithDuration(Persistent))
	case e.Duration > 0:
		opts = append(opts, WithDuration(time.Duration(e.Duration)*time.Millisecond))
	}
	if e.Dismissable != nil {
		opts = append(opts, Dismissable(*e.Dismissable))
	}
	return opts, nil
}

// Apply shows the toast described by e.
func (n *Notifier) Apply(e Event) (ID, error) {
	kind, err := ParseKind(e.Level)
	if err != nil {
		return 0, terrors.FromError(err, "T105").WithField("level")
	}
	if kind == KindLoading {
		return 0, terrors.New("T105").WithField("level").
			WithDetail("loading toasts are created with Promise")
	}
	if strings.TrimSpace(e.Message) == "" {
		return 0, terrors.New("T100").WithField("message").
			WithDetail("message is required")
	}
	opts, err := e.Options()
	if err != nil {
		return 0, err
	}
	return n.Show(kind, e.Message, opts...), nil
}
