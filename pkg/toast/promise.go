package toast

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fallback texts for promise toasts.
const (
	DefaultLoadingText = "Loading..."
	DefaultSuccessText = "Success!"
	DefaultErrorText   = "Something went wrong!"
)

// PromiseOptions configures a promise toast.
type PromiseOptions[T any] struct {
	// Loading is shown while the operation runs. Default: "Loading...".
	Loading string

	// Success formats the value. A nil formatter or empty text shows
	// "Success!". A failing formatter turns the outcome into an error.
	Success func(T) (string, error)

	// Error formats the operation error. A nil formatter shows the error
	// text; a failing one shows "Something went wrong!".
	Error func(error) (string, error)

	// Duration is the auto-dismiss delay after settlement.
	Duration time.Duration

	// Dismissable renders a dismiss button. Default: false.
	Dismissable bool

	// OnDismiss runs when the user dismisses the toast.
	OnDismiss func()
}

// Task tracks a promise toast.
type Task struct {
	id   ID
	done chan struct{}

	kind Kind
	text string
	err  error
}

// ID returns the toast ID, or 0 if the notifier was closed.
func (t *Task) ID() ID { return t.id }

// Done is closed once the outcome has been formatted and, if the toast is
// still shown, committed.
func (t *Task) Done() <-chan struct{} { return t.done }

// Kind returns KindSuccess or KindError after Done is closed.
func (t *Task) Kind() Kind { return t.kind }

// Text returns the formatted outcome after Done is closed, including when
// the toast was dismissed before settlement.
func (t *Task) Text() string { return t.text }

// Err returns the operation error after Done is closed.
func (t *Task) Err() error { return t.err }

// Promise shows a loading toast, runs op on its own goroutine and replaces
// the toast content with the formatted outcome. Dismissing the toast does
// not cancel op; Close cancels its context.
func Promise[T any](n *Notifier, op func(ctx context.Context) (T, error), po PromiseOptions[T], opts ...Option) *Task {
	loading := po.Loading
	if loading == "" {
		loading = DefaultLoadingText
	}
	base := []Option{Dismissable(po.Dismissable)}
	if po.Duration != 0 {
		base = append(base, WithDuration(po.Duration))
	}
	if po.OnDismiss != nil {
		base = append(base, OnDismiss(po.OnDismiss))
	}
	o := n.resolve(append(base, opts...), false)

	task := &Task{done: make(chan struct{})}

	c := n.c
	c.mu.Lock()
	if n.closed {
		c.mu.Unlock()
		task.err = context.Canceled
		close(task.done)
		return task
	}
	rec := n.newRecord(KindLoading, loading, o)
	rec.async = true
	rec.pending = true
	n.insert(rec)
	n.wg.Add(1)
	ctx := n.ctx
	c.mu.Unlock()
	c.signal()

	task.id = rec.id
	go func() {
		defer n.wg.Done()
		defer close(task.done)
		task.kind, task.text, task.err = resolvePromise(ctx, n, rec, op, po)
	}()
	return task
}

// resolvePromise runs op, formats its outcome and commits it to rec.
func resolvePromise[T any](ctx context.Context, n *Notifier, rec *record, op func(context.Context) (T, error), po PromiseOptions[T]) (Kind, string, error) {
	start := n.clock.Now()
	ctx, span := n.tracer.Start(ctx, "toast.promise",
		trace.WithAttributes(attribute.String("toast.id", rec.id.String())))
	defer span.End()

	value, err := call(ctx, op)
	kind := KindSuccess
	if err != nil {
		kind = KindError
	}

	var text string
	if err == nil {
		text, err = formatSuccess(n, rec.id, po.Success, value)
		if err != nil {
			kind = KindError
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		text = n.formatError(rec.id, po.Error, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.String("toast.outcome", string(kind)))
	n.metrics.recordSettled(kind, n.clock.Now().Sub(start))

	// The outcome is formatted either way; only the DOM update depends on
	// the toast still being on screen.
	if !n.commit(rec, kind, text) {
		span.SetAttributes(attribute.Bool("toast.dismissed", true))
	}
	return kind, text, err
}

// call runs op, turning a panic into an error.
func call[T any](ctx context.Context, op func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("toast: promise operation panicked: %v", r)
		}
	}()
	return op(ctx)
}

// formatSuccess returns the success text. A formatter error or panic is
// returned as the new outcome error.
func formatSuccess[T any](n *Notifier, id ID, format func(T) (string, error), value T) (text string, err error) {
	if format == nil {
		return DefaultSuccessText, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("toast: success formatter panicked: %v", r)
		}
		if err != nil {
			n.metrics.recordFormatterFailure()
			n.logger.Warn("success formatter failed", "toast_id", id, "error", err)
		}
	}()
	text, err = format(value)
	if err == nil && text == "" {
		text = DefaultSuccessText
	}
	return text, err
}

// formatError returns the error text, falling back to DefaultErrorText when
// the formatter fails.
func (n *Notifier) formatError(id ID, format func(error) (string, error), cause error) (text string) {
	if format == nil {
		return cause.Error()
	}
	defer func() {
		if r := recover(); r != nil {
			n.metrics.recordFormatterFailure()
			n.logger.Warn("error formatter panicked", "toast_id", id, "panic", r)
			text = DefaultErrorText
		}
	}()
	text, err := format(cause)
	if err != nil {
		n.metrics.recordFormatterFailure()
		n.logger.Warn("error formatter failed", "toast_id", id, "error", err)
		return DefaultErrorText
	}
	return text
}

// commit writes the outcome into rec's slot. A toast that is still exiting
// gets its content updated but keeps its unmount timer; a shown toast also
// arms its removal timer. It reports false if the slot is already gone.
func (n *Notifier) commit(rec *record, kind Kind, text string) bool {
	c := n.c
	c.mu.Lock()
	if n.closed || c.reg.find(rec.id) != rec || rec.slot == nil || !rec.slot.IsConnected() {
		c.mu.Unlock()
		n.logger.Debug("promise settled after dismissal", "toast_id", rec.id)
		return false
	}
	rec.pending = false
	rec.kind = kind
	rec.message = text
	n.settle(rec)
	c.relayout()
	if rec.state < StateDismissing {
		n.scheduleRemoval(rec)
	}
	c.mu.Unlock()

	c.signal()
	n.logger.Debug("promise settled", "toast_id", rec.id, "kind", string(kind))
	return true
}
