package playground

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/toaster/internal/errors"
	"github.com/vango-dev/toaster/pkg/clock"
	"github.com/vango-dev/toaster/pkg/dom"
	"github.com/vango-dev/toaster/pkg/dom/memdom"
	"github.com/vango-dev/toaster/pkg/toast"
)

// Options configures a playground Server.
type Options struct {
	// Addr is the listen address used by Run.
	Addr string

	// MetricsPath is where Prometheus metrics are served (default: "/metrics").
	MetricsPath string

	// Toast configures the notifier.
	Toast toast.Config

	// Logger receives request and lifecycle logs (default: slog.Default()).
	Logger *slog.Logger

	// Clock drives toast timers (default: clock.Real()).
	Clock clock.Clock

	// Registry collects metrics (default: a new registry with Go and
	// process collectors).
	Registry *prometheus.Registry
}

// Server is an HTTP playground around a single notifier rendering into an
// in-memory document. Browsers receive serialized snapshots over WebSocket.
type Server struct {
	opts     Options
	notifier *toast.Notifier
	hub      *Hub
	registry *prometheus.Registry
	logger   *slog.Logger
	router   chi.Router
}

// New creates a playground server.
func New(opts Options) (*Server, error) {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	doc := memdom.NewDocument()
	n, err := toast.New(doc, doc.Body(), opts.Toast,
		toast.WithClock(opts.Clock),
		toast.WithLogger(opts.Logger),
		toast.WithMetrics(toast.NewMetrics(toast.WithRegistry(reg))),
		toast.WithIcons(toast.LucideIcons),
	)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		notifier: n,
		registry: reg,
		logger:   opts.Logger,
	}
	s.hub = NewHub(s.snapshot, opts.Logger)
	s.router = s.routes(newHTTPMetrics(reg))
	return s, nil
}

// Notifier returns the notifier driven by the server.
func (s *Server) Notifier() *toast.Notifier { return s.notifier }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(m *httpMetrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument(m, s.logger))

	r.Get("/", s.handlePage)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Get("/state", s.handleState)
	r.Post("/toasts", s.handleCreate)
	r.Post("/toasts/{id}/dismiss", s.handleDismiss)
	r.Post("/promise", s.handlePromise)
	r.Method(http.MethodGet, s.opts.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.Watch(watchCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playground listening", "addr", s.opts.Addr, "metrics", s.opts.MetricsPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("T301").Wrap(err).WithDetail(err.Error())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Watch broadcasts a snapshot after every change until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	changes := s.notifier.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			s.hub.Broadcast(s.snapshot())
		}
	}
}

// Close closes client connections and the notifier.
func (s *Server) Close() {
	s.hub.Close()
	s.notifier.Close()
}

func (s *Server) snapshot() Message {
	root := s.notifier.Container().Root().(*memdom.Node)
	var html string
	s.notifier.View(func(dom.Element) {
		html = root.OuterHTML()
	})
	return Message{
		Type:     MessageSnapshot,
		Position: string(s.notifier.Position()),
		HTML:     html,
		Toasts:   toastStates(s.notifier.Snapshot()),
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{MetricsPath: s.opts.MetricsPath}); err != nil {
		s.logger.Warn("render page", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var e toast.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("T100").WithDetail("invalid JSON: "+err.Error()))
		return
	}
	id, err := s.notifier.Apply(e)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("T100").WithField("id").WithDetail(raw+" is not a toast id"))
		return
	}
	if !s.notifier.Dismiss(toast.ID(id)) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// promiseRequest describes a simulated operation.
type promiseRequest struct {
	Loading string `json:"loading"`
	Success string `json:"success"`
	Error   string `json:"error"`
	Delay   int64  `json:"delay"` // milliseconds
	Fail    bool   `json:"fail"`
	Wait    bool   `json:"wait"`
}

func (s *Server) handlePromise(w http.ResponseWriter, r *http.Request) {
	var req promiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("T100").WithDetail("invalid JSON: "+err.Error()))
		return
	}
	if req.Delay < 0 {
		writeError(w, http.StatusBadRequest, errors.New("T103").WithField("delay"))
		return
	}

	delay := time.Duration(req.Delay) * time.Millisecond
	op := func(ctx context.Context) (time.Duration, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
		if req.Fail {
			return delay, fmt.Errorf("operation failed after %s", delay)
		}
		return delay, nil
	}

	po := toast.PromiseOptions[time.Duration]{
		Loading:     req.Loading,
		Dismissable: true,
		Success: func(d time.Duration) (string, error) {
			if req.Success != "" {
				return req.Success, nil
			}
			return "Finished in " + d.String(), nil
		},
	}
	if req.Error != "" {
		po.Error = func(error) (string, error) { return req.Error, nil }
	}

	task := toast.Promise(s.notifier, op, po)
	if !req.Wait {
		writeJSON(w, http.StatusAccepted, map[string]string{"id": task.ID().String()})
		return
	}

	select {
	case <-task.Done():
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   task.ID().String(),
		"kind": string(task.Kind()),
		"text": task.Text(),
	})
}

// errorBody is the JSON error response.
type errorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Message: err.Error()}
	var te *errors.ToastError
	if stderrors.As(err, &te) {
		body = errorBody{Code: te.Code, Message: te.Message, Detail: te.Detail, Field: te.Field}
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
