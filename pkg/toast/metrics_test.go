package toast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/toaster/pkg/dom/memdom"
)

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	h := newHarness(t, Config{}, WithMetrics(m))
	h.n.Error("failed")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() != "app_ui_toasts_created_total" {
			continue
		}
		found = true
		metric := f.GetMetric()[0]
		labels := map[string]string{}
		for _, l := range metric.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		if labels["env"] != "test" || labels["kind"] != "error" {
			t.Errorf("labels = %v", labels)
		}
		if metric.GetCounter().GetValue() != 1 {
			t.Errorf("value = %v", metric.GetCounter().GetValue())
		}
	}
	if !found {
		t.Error("app_ui_toasts_created_total not registered")
	}
}

func TestMetricsLifecycle(t *testing.T) {
	h := newHarness(t, Config{MaxActive: 2})

	first := h.n.Info("one")
	h.n.Info("two")
	h.n.Info("three") // overflows "one"
	h.n.Dismiss(h.n.Snapshot()[0].ID)
	if got := testutil.ToFloat64(h.metrics.active); got != 3 {
		t.Errorf("active before removal = %v, want 3", got)
	}

	h.clock.Advance(DefaultUnmountDelay)
	if h.slot(first) != nil {
		t.Error("overflowed toast still attached")
	}
	if got := testutil.ToFloat64(h.metrics.active); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.metrics.dismissed.WithLabelValues(ReasonOverflow)); got != 1 {
		t.Errorf("overflow dismissals = %v", got)
	}
	if got := testutil.ToFloat64(h.metrics.dismissed.WithLabelValues(ReasonUser)); got != 1 {
		t.Errorf("user dismissals = %v", got)
	}

	h.clock.Advance(DefaultDuration)
	if got := testutil.ToFloat64(h.metrics.dismissed.WithLabelValues(ReasonTimeout)); got != 1 {
		t.Errorf("timeout dismissals = %v", got)
	}
	if got := testutil.ToFloat64(h.metrics.active); got != 0 {
		t.Errorf("active = %v, want 0", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.recordCreated(KindInfo)
	m.recordDismissed(ReasonUser)
	m.recordRemoved()
	m.recordSettled(KindSuccess, time.Second)
	m.recordFormatterFailure()

	doc := memdom.NewDocument()
	n, err := New(doc, doc.Body(), Config{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer n.Close()
	if id := n.Success("no metrics"); id == 0 {
		t.Error("Success() returned 0")
	}
}

func TestIcons(t *testing.T) {
	h := newHarness(t, Config{}, WithIcons(NoIcons))

	plain := h.slot(h.n.Warn("careful"))
	icon := plain.Find(memdom.ByAttr("data-set-icon"))
	if icon == nil {
		t.Fatal("icon element missing")
	}
	if icon.AttributeValue("data-icon-type") != "warning" || icon.InnerHTML() != "" {
		t.Errorf("icon = type %q markup %q", icon.AttributeValue("data-icon-type"), icon.InnerHTML())
	}

	bare := h.slot(h.n.Info("quiet", WithoutIcon()))
	if bare.Find(memdom.ByAttr("data-set-icon")) != nil {
		t.Error("WithoutIcon() still rendered an icon")
	}

	if LucideIcons(KindSuccess) == "" || LucideIcons(KindLoading) == "" {
		t.Error("LucideIcons missing markup")
	}
}

// recordingTracer records span names.
type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	names []string
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()
	return r.Tracer.Start(ctx, name, opts...)
}

func TestPromiseSpan(t *testing.T) {
	tracer := &recordingTracer{}
	h := newHarness(t, Config{}, WithTracer(tracer))

	task := Promise(h.n, func(context.Context) (int, error) { return 1, nil }, PromiseOptions[int]{})
	wait(t, task)

	tracer.mu.Lock()
	defer tracer.mu.Unlock()
	if len(tracer.names) != 1 || tracer.names[0] != "toast.promise" {
		t.Errorf("spans = %v, want [toast.promise]", tracer.names)
	}
}
