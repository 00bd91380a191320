package toast

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	terrors "github.com/vango-dev/toaster/internal/errors"
	"github.com/vango-dev/toaster/pkg/clock"
	"github.com/vango-dev/toaster/pkg/dom"
)

const tracerName = "github.com/vango-dev/toaster/pkg/toast"

// Container is the toast list mounted in a document. Notifiers that share a
// Container share one stack, one anchor and one lock.
type Container struct {
	mu sync.Mutex

	doc        dom.Document
	root       dom.Element
	list       dom.Element
	position   Position
	style      Style
	maxVisible int

	reg  *registry
	last dom.Element // most recently inserted slot still in the list

	changes chan struct{}
}

// NewContainer creates the toast container under mount. The stack anchor,
// style and visibility cap come from cfg.
func NewContainer(doc dom.Document, mount dom.Element, cfg Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newContainer(doc, mount, cfg.withDefaults())
}

func newContainer(doc dom.Document, mount dom.Element, cfg Config) (*Container, error) {
	if doc == nil {
		return nil, terrors.New("T200")
	}
	if mount == nil {
		return nil, terrors.New("T201")
	}

	c := &Container{
		doc:        doc,
		style:      cfg.Style,
		maxVisible: cfg.MaxVisible,
		reg:        newRegistry(),
		changes:    make(chan struct{}, 1),
	}

	c.root = doc.CreateElement("div")
	c.root.SetAttribute("data-toaster-container", "true")
	c.root.SetAttribute("tabindex", "-1")
	c.root.SetAttribute("aria-label", "Notifications")

	c.list = doc.CreateElement("ol")
	c.list.SetAttribute("data-toaster-content", "")
	c.list.SetAttribute("aria-live", "polite")
	for _, v := range cfg.Style.Vars(cfg.Position) {
		c.list.SetStyleProperty(v.Name, v.Value)
	}
	c.setPosition(cfg.Position)

	c.root.AppendChild(c.list)
	mount.AppendChild(c.root)
	return c, nil
}

// Root returns the container element appended to the mount point.
func (c *Container) Root() dom.Element { return c.root }

// List returns the element that holds the toast slots.
func (c *Container) List() dom.Element { return c.list }

// View runs fn with the list element while holding the container lock.
// Use it to read or serialize the tree while toasts are being updated.
func (c *Container) View(fn func(list dom.Element)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.list)
}

// Position returns the live anchor.
func (c *Container) Position() Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Changes returns a channel that receives a value after committed
// mutations. Signals coalesce: one pending value stands for any number of
// changes.
func (c *Container) Changes() <-chan struct{} {
	return c.changes
}

func (c *Container) signal() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// setPosition re-tags the list for p. Existing slots are kept.
func (c *Container) setPosition(p Position) {
	c.position = p
	c.list.SetAttribute("data-position-y", string(p.Vertical()))
	c.list.SetAttribute("data-position-x", string(p.Horizontal()))
	c.list.SetStyleProperty("--translate-x", p.TranslateX())
}

// insertSlot puts slot at the top of the list.
func (c *Container) insertSlot(slot dom.Element) {
	if c.last != nil {
		c.list.InsertBefore(slot, c.last)
	} else {
		c.list.AppendChild(slot)
	}
	c.last = slot
}

// newestSlot returns the slot of the newest record still rendered.
func (c *Container) newestSlot() dom.Element {
	var slot dom.Element
	c.reg.each(func(r *record) bool {
		if r.slot != nil {
			slot = r.slot
			return false
		}
		return true
	})
	return slot
}

// relayout recomputes every slot from the current registry.
func (c *Container) relayout() {
	recs := make([]*record, 0, c.reg.len())
	heights := make([]float64, 0, c.reg.len())
	c.reg.each(func(r *record) bool {
		if r.slot != nil {
			recs = append(recs, r)
			heights = append(heights, r.slot.Height())
		}
		return true
	})

	slots := Layout(heights, length(c.style.Gap), c.position.Vertical(), c.maxVisible)
	for i, r := range recs {
		s := slots[i]
		r.layout = s
		r.slot.SetStyleProperty("--offset", px(s.Offset))
		r.slot.SetStyleProperty("--z-index", strconv.Itoa(s.ZIndex))
		r.slot.SetAttribute("data-visible", strconv.FormatBool(s.Visible))
	}
}

// live reports whether rec may still be mutated.
func (c *Container) live(rec *record) bool {
	return c.reg.find(rec.id) == rec &&
		rec.state < StateDismissing &&
		rec.slot != nil &&
		rec.slot.IsConnected()
}

// dismiss starts the exit of rec. It reports false if rec is already
// leaving.
func (c *Container) dismiss(rec *record, reason string) bool {
	if rec.state >= StateDismissing {
		return false
	}
	rec.removal.stop()
	rec.mount.stop()
	rec.state = StateDismissing
	if rec.slot != nil {
		rec.slot.SetAttribute("data-dismiss", "true")
	}

	o := rec.owner
	o.metrics.recordDismissed(reason)
	o.logger.Debug("toast dismissed", "toast_id", rec.id, "reason", reason)
	rec.unmount = o.after(o.cfg.UnmountDelay, func() {
		c.detach(rec)
	})
	return true
}

// detach removes rec from the list and the registry.
func (c *Container) detach(rec *record) {
	if c.reg.remove(rec.id) == nil {
		return
	}
	rec.removal.stop()
	rec.mount.stop()
	rec.unmount.stop()

	if rec.slot != nil {
		c.list.RemoveChild(rec.slot)
		if c.last == rec.slot {
			// Anchor on the newest remaining slot rather than the end of
			// the list so DOM order keeps matching registry order.
			c.last = c.newestSlot()
		}
	}
	rec.slot, rec.content, rec.icon, rec.text = nil, nil, nil, nil
	rec.state = StateRemoved
	rec.owner.metrics.recordRemoved()
	rec.owner.logger.Debug("toast removed", "toast_id", rec.id)
	c.relayout()
}

func (c *Container) snapshot() []Snapshot {
	out := make([]Snapshot, 0, c.reg.len())
	c.reg.each(func(r *record) bool {
		state := r.state
		if state == StateMounted && r.pending {
			state = StateSettling
		}
		out = append(out, Snapshot{
			ID:        r.id,
			Kind:      r.kind,
			Message:   r.message,
			Title:     r.opts.title,
			Variant:   r.opts.variant,
			State:     state,
			Slot:      r.layout,
			CreatedAt: r.createdAt,
		})
		return true
	})
	return out
}

// record is one active toast.
type record struct {
	id        ID
	kind      Kind
	message   string
	createdAt time.Time
	opts      options
	owner     *Notifier

	slot    dom.Element
	icon    dom.Element
	content dom.Element
	text    dom.Element // promise text, replaced on settlement

	removal *timer
	mount   *timer
	unmount *timer

	async   bool
	pending bool
	state   State
	layout  Slot
}

// timer is a clock timer whose callback runs under the container lock and
// never runs once stop has been called.
type timer struct {
	t       clock.Timer
	stopped bool
}

func (t *timer) stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	t.t.Stop()
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithContainer makes the notifier share an existing container instead of
// creating its own. The container keeps its anchor, style and visibility
// cap.
func WithContainer(c *Container) NotifierOption {
	return func(n *Notifier) {
		n.c = c
	}
}

// WithClock sets the time source. Default: clock.Real().
func WithClock(c clock.Clock) NotifierOption {
	return func(n *Notifier) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) NotifierOption {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// WithTracer sets the tracer used for promise spans. Default: the global
// OpenTelemetry provider.
func WithTracer(t trace.Tracer) NotifierOption {
	return func(n *Notifier) {
		if t != nil {
			n.tracer = t
		}
	}
}

// WithIcons sets the icon markup provider. Default: LucideIcons.
func WithIcons(fn IconFunc) NotifierOption {
	return func(n *Notifier) {
		if fn != nil {
			n.icons = fn
		}
	}
}

// Notifier shows toasts in a container.
// All methods are safe for concurrent use.
type Notifier struct {
	c       *Container
	cfg     Config
	clock   clock.Clock
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	icons   IconFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool // guarded by c.mu
}

// New creates a notifier that renders into mount. With WithContainer, doc
// and mount may be nil.
func New(doc dom.Document, mount dom.Element, cfg Config, opts ...NotifierOption) (*Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	n := &Notifier{
		cfg:    cfg,
		clock:  clock.Real(),
		logger: slog.Default(),
		icons:  LucideIcons,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.tracer == nil {
		n.tracer = otel.Tracer(tracerName)
	}
	if n.c == nil {
		c, err := newContainer(doc, mount, cfg)
		if err != nil {
			return nil, err
		}
		n.c = c
	}
	n.ctx, n.cancel = context.WithCancel(context.Background())

	n.logger.Debug("toast notifier ready",
		"position", string(n.c.position),
		"max_visible", n.c.maxVisible,
		"duration", cfg.Duration,
	)
	return n, nil
}

// Container returns the container the notifier renders into.
func (n *Notifier) Container() *Container { return n.c }

// Config returns the effective configuration.
func (n *Notifier) Config() Config { return n.cfg }

// Success shows a success toast.
func (n *Notifier) Success(message string, opts ...Option) ID {
	return n.Show(KindSuccess, message, opts...)
}

// Warn shows a warning toast.
func (n *Notifier) Warn(message string, opts ...Option) ID {
	return n.Show(KindWarning, message, opts...)
}

// Error shows an error toast.
func (n *Notifier) Error(message string, opts ...Option) ID {
	return n.Show(KindError, message, opts...)
}

// Info shows an info toast.
func (n *Notifier) Info(message string, opts ...Option) ID {
	return n.Show(KindInfo, message, opts...)
}

// Show displays a toast of the given kind and returns its ID. The toast is
// removed after its duration unless it is persistent. After Close, Show does
// nothing and returns 0.
func (n *Notifier) Show(kind Kind, message string, opts ...Option) ID {
	if !kind.Valid() || kind == KindLoading {
		n.logger.Warn("unsupported toast kind, using info", "kind", string(kind))
		kind = KindInfo
	}
	o := n.resolve(opts, true)

	c := n.c
	c.mu.Lock()
	if n.closed {
		c.mu.Unlock()
		return 0
	}
	rec := n.newRecord(kind, message, o)
	n.insert(rec)
	n.scheduleRemoval(rec)
	c.mu.Unlock()

	c.signal()
	return rec.id
}

// Dismiss starts the exit of the toast with id and runs its OnDismiss
// callback. It reports false if the toast is unknown or already leaving.
func (n *Notifier) Dismiss(id ID) bool {
	c := n.c
	c.mu.Lock()
	rec := c.reg.find(id)
	if rec == nil || !c.dismiss(rec, ReasonUser) {
		c.mu.Unlock()
		return false
	}
	callback := rec.opts.onDismiss
	owner := rec.owner
	c.mu.Unlock()

	c.signal()
	if callback != nil {
		owner.run("on_dismiss", id, callback)
	}
	return true
}

// Active returns the number of toasts in the stack, including those
// playing their exit animation.
func (n *Notifier) Active() int {
	n.c.mu.Lock()
	defer n.c.mu.Unlock()
	return n.c.reg.len()
}

// Position returns the live anchor of the stack.
func (n *Notifier) Position() Position {
	return n.c.Position()
}

// Snapshot returns the active toasts, newest first.
func (n *Notifier) Snapshot() []Snapshot {
	n.c.mu.Lock()
	defer n.c.mu.Unlock()
	return n.c.snapshot()
}

// View runs fn with the list element under the container lock.
func (n *Notifier) View(fn func(list dom.Element)) {
	n.c.View(fn)
}

// Changes returns the container's change signal.
func (n *Notifier) Changes() <-chan struct{} {
	return n.c.Changes()
}

// Close cancels running promise operations, waits for them to return and
// removes every toast this notifier created. It is safe to call more than
// once.
func (n *Notifier) Close() {
	c := n.c
	c.mu.Lock()
	if n.closed {
		c.mu.Unlock()
		return
	}
	n.closed = true
	c.mu.Unlock()

	n.cancel()
	n.wg.Wait()

	c.mu.Lock()
	var owned []*record
	c.reg.each(func(r *record) bool {
		if r.owner == n {
			owned = append(owned, r)
		}
		return true
	})
	for _, r := range owned {
		if r.state < StateDismissing {
			n.metrics.recordDismissed(ReasonClose)
		}
		c.detach(r)
	}
	c.mu.Unlock()

	c.signal()
	n.logger.Debug("toast notifier closed", "removed", len(owned))
}

func (n *Notifier) newRecord(kind Kind, message string, o options) *record {
	return &record{
		id:        nextID(),
		kind:      kind,
		message:   message,
		createdAt: n.clock.Now(),
		opts:      o,
		owner:     n,
		state:     StateCreated,
	}
}

// insert renders rec at the top of the stack. Callers hold c.mu.
func (n *Notifier) insert(rec *record) {
	c := n.c
	c.reg.insert(rec)
	if rec.opts.position != "" && rec.opts.position != c.position {
		n.logger.Debug("toast position changed", "from", string(c.position), "to", string(rec.opts.position))
		c.setPosition(rec.opts.position)
	}

	n.render(rec)
	c.insertSlot(rec.slot)
	c.relayout()

	n.metrics.recordCreated(rec.kind)
	n.logger.Debug("toast created", "toast_id", rec.id, "kind", string(rec.kind))

	rec.mount = n.after(n.cfg.MountDelay, func() {
		if !c.live(rec) {
			return
		}
		rec.slot.SetAttribute("data-mounted", "true")
		if rec.state == StateCreated {
			rec.state = StateMounted
		}
	})

	n.enforceMaxActive(rec)
}

// enforceMaxActive dismisses the oldest toasts beyond MaxActive.
func (n *Notifier) enforceMaxActive(keep *record) {
	if n.cfg.MaxActive <= 0 {
		return
	}
	c := n.c
	eligible := func(r *record) bool { return r.state < StateDismissing && r != keep }

	active := 0
	c.reg.each(func(r *record) bool {
		if r.state < StateDismissing {
			active++
		}
		return true
	})
	for active > n.cfg.MaxActive {
		old := c.reg.oldest(eligible)
		if old == nil {
			return
		}
		c.dismiss(old, ReasonOverflow)
		active--
	}
}

// scheduleRemoval arms the auto-dismiss timer. Callers hold c.mu.
func (n *Notifier) scheduleRemoval(rec *record) {
	if rec.opts.duration < 0 {
		return
	}
	rec.removal = n.after(rec.opts.duration, func() {
		n.c.dismiss(rec, ReasonTimeout)
	})
}

// after schedules fn on the notifier clock. fn runs under c.mu unless the
// returned timer was stopped first.
func (n *Notifier) after(d time.Duration, fn func()) *timer {
	c := n.c
	tm := &timer{}
	tm.t = n.clock.AfterFunc(d, func() {
		c.mu.Lock()
		if tm.stopped {
			c.mu.Unlock()
			return
		}
		tm.stopped = true
		fn()
		c.mu.Unlock()
		c.signal()
	})
	return tm
}

// run calls a user callback, recovering panics.
func (n *Notifier) run(name string, id ID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("toast callback panicked", "callback", name, "toast_id", id, "panic", r)
		}
	}()
	fn()
}
