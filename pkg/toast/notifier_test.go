package toast

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	terrors "github.com/vango-dev/toaster/internal/errors"
	"github.com/vango-dev/toaster/pkg/clock"
	"github.com/vango-dev/toaster/pkg/dom/memdom"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	n       *Notifier
	doc     *memdom.Document
	clock   *clock.Virtual
	metrics *Metrics
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, cfg Config, opts ...NotifierOption) *harness {
	t.Helper()
	h := &harness{
		doc:     memdom.NewDocument(memdom.WithFixedHeight(60)),
		clock:   clock.NewVirtual(epoch),
		metrics: NewMetrics(WithRegistry(prometheus.NewRegistry())),
	}
	opts = append([]NotifierOption{
		WithClock(h.clock),
		WithLogger(quietLogger()),
		WithMetrics(h.metrics),
	}, opts...)

	n, err := New(h.doc, h.doc.Body(), cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(n.Close)
	h.n = n
	return h
}

func (h *harness) list() *memdom.Node {
	return h.n.Container().List().(*memdom.Node)
}

func (h *harness) slots() []*memdom.Node {
	return h.list().Children()
}

func (h *harness) slot(id ID) *memdom.Node {
	return h.list().Find(memdom.ByAttr("data-toast-id", id.String()))
}

func (h *harness) ids() []string {
	var ids []string
	for _, s := range h.slots() {
		ids = append(ids, s.AttributeValue("data-toast-id"))
	}
	return ids
}

func TestNewErrors(t *testing.T) {
	doc := memdom.NewDocument()

	if _, err := New(nil, doc.Body(), Config{}); !errors.Is(err, ErrMissingHost) {
		t.Errorf("nil document: err = %v, want ErrMissingHost", err)
	}
	if _, err := New(doc, nil, Config{}); !errors.Is(err, ErrMissingHost) {
		t.Errorf("nil mount: err = %v, want ErrMissingHost", err)
	}
	if _, err := New(doc, doc.Body(), Config{MaxVisible: -3}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad config: err = %v, want ErrInvalidConfig", err)
	}
}

func TestContainerMarkup(t *testing.T) {
	h := newHarness(t, Config{Position: BottomLeft})

	root := h.doc.Body().Find(memdom.ByAttr("data-toaster-container", "true"))
	if root == nil {
		t.Fatal("container root not mounted")
	}
	if root.AttributeValue("aria-label") == "" || root.AttributeValue("tabindex") != "-1" {
		t.Error("container root should carry accessibility attributes")
	}

	list := h.list()
	if list.AttributeValue("data-position-y") != "bottom" || list.AttributeValue("data-position-x") != "left" {
		t.Errorf("position attrs = %q/%q", list.AttributeValue("data-position-y"), list.AttributeValue("data-position-x"))
	}
	if v, _ := list.StyleProperty("--translate-x"); v != "-100%" {
		t.Errorf("--translate-x = %q, want -100%%", v)
	}
	if v, _ := list.StyleProperty("--gap"); v != "16px" {
		t.Errorf("--gap = %q, want 16px", v)
	}
}

func TestNewestOnTop(t *testing.T) {
	h := newHarness(t, Config{})

	a := h.n.Info("first")
	b := h.n.Success("second")
	c := h.n.Error("third")

	want := []string{c.String(), b.String(), a.String()}
	got := h.ids()
	if len(got) != 3 {
		t.Fatalf("slots = %v, want 3", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DOM order = %v, want %v", got, want)
		}
	}

	snap := h.n.Snapshot()
	if snap[0].ID != c || snap[2].ID != a {
		t.Errorf("snapshot order = %v, %v, %v", snap[0].ID, snap[1].ID, snap[2].ID)
	}
	if snap[0].Slot.ZIndex != 2 || snap[2].Slot.ZIndex != 0 {
		t.Errorf("z-index = %d..%d, want 2..0", snap[0].Slot.ZIndex, snap[2].Slot.ZIndex)
	}
	if v, _ := h.slot(c).StyleProperty("--z-index"); v != "2" {
		t.Errorf("newest --z-index = %q, want 2", v)
	}
}

func TestVisibilityBound(t *testing.T) {
	for _, count := range []int{1, 3, 5} {
		h := newHarness(t, Config{MaxVisible: 3})
		for i := 0; i < count; i++ {
			h.n.Info("toast")
		}

		visible := len(h.list().FindAll(memdom.ByAttr("data-visible", "true")))
		want := min(count, 3)
		if visible != want {
			t.Errorf("%d toasts: %d visible, want %d", count, visible, want)
		}
		for i, s := range h.slots() {
			if s.AttributeValue("data-visible") != "true" && i < 3 {
				t.Errorf("%d toasts: slot %d hidden, newest three must be visible", count, i)
			}
		}
	}
}

func TestStackOffsets(t *testing.T) {
	tests := []struct {
		position Position
		want     []string
	}{
		{TopRight, []string{"0px", "76px", "152px"}},
		{BottomRight, []string{"-60px", "-136px", "-212px"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			h := newHarness(t, Config{Position: tt.position})
			for i := 0; i < 3; i++ {
				h.n.Info("toast")
			}
			for i, s := range h.slots() {
				if v, _ := s.StyleProperty("--offset"); v != tt.want[i] {
					t.Errorf("slot %d --offset = %q, want %q", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestLifecycleTimers(t *testing.T) {
	h := newHarness(t, Config{})
	id := h.n.Success("saved")

	s := h.slot(id)
	if s.AttributeValue("data-mounted") != "false" {
		t.Fatal("new toast should start unmounted")
	}

	h.clock.Advance(DefaultMountDelay)
	if s.AttributeValue("data-mounted") != "true" {
		t.Error("toast should be mounted after the mount delay")
	}
	if st := h.n.Snapshot()[0].State; st != StateMounted {
		t.Errorf("state = %v, want mounted", st)
	}

	h.clock.Advance(DefaultDuration - DefaultMountDelay)
	if s.AttributeValue("data-dismiss") != "true" {
		t.Error("toast should be dismissing after its duration")
	}
	if h.n.Active() != 1 {
		t.Errorf("Active() = %d during exit animation, want 1", h.n.Active())
	}

	h.clock.Advance(DefaultUnmountDelay)
	if h.n.Active() != 0 {
		t.Errorf("Active() = %d, want 0", h.n.Active())
	}
	if s.IsConnected() {
		t.Error("slot should be detached")
	}
	if h.clock.Pending() != 0 {
		t.Errorf("clock has %d pending timers", h.clock.Pending())
	}
}

func TestDismissCancelsTimer(t *testing.T) {
	h := newHarness(t, Config{})
	id := h.n.Info("hello")

	h.clock.Advance(time.Second)
	if !h.n.Dismiss(id) {
		t.Fatal("Dismiss() = false for live toast")
	}
	if h.n.Dismiss(id) {
		t.Error("second Dismiss() should be a no-op")
	}

	h.clock.Advance(10 * time.Second)
	if h.n.Dismiss(id) {
		t.Error("Dismiss() after removal should be a no-op")
	}

	if got := testutil.ToFloat64(h.metrics.dismissed.WithLabelValues(ReasonUser)); got != 1 {
		t.Errorf("user dismissals = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.metrics.dismissed.WithLabelValues(ReasonTimeout)); got != 0 {
		t.Errorf("timeout dismissals = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.metrics.active); got != 0 {
		t.Errorf("active gauge = %v, want 0", got)
	}
	if len(h.slots()) != 0 {
		t.Errorf("list still has %d slots", len(h.slots()))
	}
}

func TestDismissUnknown(t *testing.T) {
	h := newHarness(t, Config{})
	if h.n.Dismiss(12345678) {
		t.Error("Dismiss() of unknown id should return false")
	}
}

func TestDismissButton(t *testing.T) {
	h := newHarness(t, Config{})

	calls := 0
	id := h.n.Warn("careful", OnDismiss(func() { calls++ }))
	btn := h.slot(id).Find(memdom.ByAttr("data-dismiss-btn"))
	if btn == nil {
		t.Fatal("dismiss button not rendered")
	}
	if btn.AttributeValue("type") != "button" {
		t.Errorf("button type = %q", btn.AttributeValue("type"))
	}

	btn.Click()
	if calls != 1 {
		t.Errorf("OnDismiss ran %d times, want 1", calls)
	}
	btn.Click()
	if calls != 1 {
		t.Errorf("OnDismiss ran %d times after second click, want 1", calls)
	}
}

func TestOnDismissNotCalledOnExpiry(t *testing.T) {
	h := newHarness(t, Config{})
	called := false
	h.n.Info("bye", OnDismiss(func() { called = true }))

	h.clock.Advance(time.Minute)
	if called {
		t.Error("OnDismiss should not run on auto-expiry")
	}
}

func TestOnDismissPanicRecovered(t *testing.T) {
	h := newHarness(t, Config{})
	id := h.n.Info("boom", OnDismiss(func() { panic("callback") }))
	if !h.n.Dismiss(id) {
		t.Error("Dismiss() should still succeed")
	}
}

func TestNotDismissable(t *testing.T) {
	h := newHarness(t, Config{})
	id := h.n.Info("sticky", Dismissable(false), WithoutIcon())
	s := h.slot(id)
	if s.Find(memdom.ByAttr("data-dismiss-btn")) != nil {
		t.Error("dismiss button rendered for non-dismissable toast")
	}
	if s.Find(memdom.ByAttr("data-set-icon")) != nil {
		t.Error("icon rendered despite WithoutIcon")
	}
}

func TestSlotContent(t *testing.T) {
	h := newHarness(t, Config{})
	id := h.n.Error("Disk full", WithTitle("Upload"), WithVariant(VariantFilled))

	s := h.slot(id)
	if s.AttributeValue("data-toast-type") != "error" || s.AttributeValue("data-toast-variant") != "filled" {
		t.Errorf("type/variant = %q/%q", s.AttributeValue("data-toast-type"), s.AttributeValue("data-toast-variant"))
	}
	if title := s.Find(memdom.ByAttr("data-toast-title")); title == nil || title.Text() != "Upload" {
		t.Error("title not rendered")
	}
	if desc := s.Find(memdom.ByAttr("data-toast-description")); desc == nil || desc.Text() != "Disk full" {
		t.Error("description not rendered")
	}
	if icon := s.Find(memdom.ByAttr("data-icon-type", "error")); icon == nil || icon.InnerHTML() == "" {
		t.Error("error icon not rendered")
	}
}

func TestPersistent(t *testing.T) {
	h := newHarness(t, Config{})
	h.n.Info("stays", WithDuration(Persistent))
	h.clock.Advance(time.Hour)
	if h.n.Active() != 1 {
		t.Errorf("Active() = %d, want 1", h.n.Active())
	}
}

func TestPositionOverride(t *testing.T) {
	h := newHarness(t, Config{Position: TopRight})
	a := h.n.Info("first")
	first := h.slot(a)

	h.n.Info("second", WithPosition(BottomLeft))

	if h.n.Position() != BottomLeft {
		t.Errorf("Position() = %q, want bottom-left", h.n.Position())
	}
	list := h.list()
	if list.AttributeValue("data-position-y") != "bottom" || list.AttributeValue("data-position-x") != "left" {
		t.Error("list not re-tagged")
	}
	if v, _ := list.StyleProperty("--translate-x"); v != "-100%" {
		t.Errorf("--translate-x = %q", v)
	}
	if h.slot(a) != first || !first.IsConnected() {
		t.Error("existing slot should be kept")
	}
	if v, _ := first.StyleProperty("--offset"); v != "-136px" {
		t.Errorf("older slot --offset = %q, want -136px", v)
	}
}

func TestInsertAfterNewestRemoved(t *testing.T) {
	h := newHarness(t, Config{})
	a := h.n.Info("a")
	b := h.n.Info("b")

	h.n.Dismiss(b)
	h.clock.Advance(DefaultUnmountDelay)

	c := h.n.Info("c")
	got := h.ids()
	if len(got) != 2 || got[0] != c.String() || got[1] != a.String() {
		t.Errorf("DOM order = %v, want [%s %s]", got, c, a)
	}

	h.n.Dismiss(c)
	h.n.Dismiss(a)
	h.clock.Advance(DefaultUnmountDelay)

	d := h.n.Info("d")
	if got := h.ids(); len(got) != 1 || got[0] != d.String() {
		t.Errorf("DOM order after emptying = %v", got)
	}
}

func TestInsertAfterMiddleRemoved(t *testing.T) {
	h := newHarness(t, Config{})
	a := h.n.Info("a")
	b := h.n.Info("b")
	c := h.n.Info("c")

	h.n.Dismiss(b)
	h.clock.Advance(DefaultUnmountDelay)
	d := h.n.Info("d")

	want := []string{d.String(), c.String(), a.String()}
	got := h.ids()
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("DOM order = %v, want %v", got, want)
		}
	}
}

func TestMaxActiveOverflow(t *testing.T) {
	h := newHarness(t, Config{MaxActive: 2})
	a := h.n.Info("a")
	h.n.Info("b")
	h.n.Info("c")

	if h.slot(a).AttributeValue("data-dismiss") != "true" {
		t.Error("oldest toast should be dismissed on overflow")
	}
	if got := testutil.ToFloat64(h.metrics.dismissed.WithLabelValues(ReasonOverflow)); got != 1 {
		t.Errorf("overflow dismissals = %v, want 1", got)
	}
	h.clock.Advance(DefaultUnmountDelay)
	if h.n.Active() != 2 {
		t.Errorf("Active() = %d, want 2", h.n.Active())
	}
}

func TestSharedContainer(t *testing.T) {
	h := newHarness(t, Config{})
	other, err := New(nil, nil, Config{}, WithContainer(h.n.Container()), WithClock(h.clock), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New(WithContainer) error = %v", err)
	}

	a := h.n.Info("from first")
	b := other.Info("from second")
	if a == b {
		t.Fatal("ids collide across notifiers")
	}
	if got := h.ids(); len(got) != 2 || got[0] != b.String() {
		t.Errorf("shared DOM order = %v", got)
	}
	if h.n.Active() != 2 || other.Active() != 2 {
		t.Error("both notifiers should see the shared stack")
	}

	other.Close()
	if got := h.ids(); len(got) != 1 || got[0] != a.String() {
		t.Errorf("after closing second notifier DOM = %v", got)
	}
	if other.Info("late") != 0 {
		t.Error("Show after Close should return 0")
	}
}

func TestChangesSignal(t *testing.T) {
	h := newHarness(t, Config{})
	select {
	case <-h.n.Changes():
	default:
	}

	h.n.Info("ping")
	select {
	case <-h.n.Changes():
	default:
		t.Error("no change signal after Show")
	}
}

func TestMetricsCreated(t *testing.T) {
	h := newHarness(t, Config{})
	h.n.Success("a")
	h.n.Success("b")
	h.n.Error("c")

	if got := testutil.ToFloat64(h.metrics.created.WithLabelValues("success")); got != 2 {
		t.Errorf("created{success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.metrics.active); got != 3 {
		t.Errorf("active = %v, want 3", got)
	}
}

func TestApply(t *testing.T) {
	h := newHarness(t, Config{})

	yes := true
	id, err := h.n.Apply(Event{Level: "warn", Message: "Low disk", Title: "Storage", Variant: "outline", Duration: -1, Dismissable: &yes})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	s := h.slot(id)
	if s == nil || s.AttributeValue("data-toast-type") != "warning" || s.AttributeValue("data-toast-variant") != "outline" {
		t.Fatal("event not rendered as an outline warning")
	}
	h.clock.Advance(time.Hour)
	if h.n.Active() != 1 {
		t.Error("negative duration should make the toast persistent")
	}

	bad := []struct {
		event Event
		code  string
	}{
		{Event{Level: "fatal", Message: "x"}, "T105"},
		{Event{Level: "loading", Message: "x"}, "T105"},
		{Event{Level: "info", Message: "  "}, "T100"},
		{Event{Level: "info", Message: "x", Variant: "neon"}, "T104"},
		{Event{Level: "info", Message: "x", Position: "center"}, "T101"},
	}
	for _, tt := range bad {
		_, err := h.n.Apply(tt.event)
		if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, terrors.New(tt.code)) {
			t.Errorf("Apply(%+v) error = %v, want %s", tt.event, err, tt.code)
		}
	}
}
