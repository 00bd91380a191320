package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/toaster/internal/errors"
	"github.com/vango-dev/toaster/pkg/clock"
	"github.com/vango-dev/toaster/pkg/dom"
	"github.com/vango-dev/toaster/pkg/dom/memdom"
	"github.com/vango-dev/toaster/pkg/toast"
)

// Script is a timeline of toast actions replayed on a virtual clock.
type Script struct {
	// Steps run in order of their At offsets.
	Steps []Step `json:"steps" yaml:"steps"`

	// Until advances the clock after the last step (e.g. "10s").
	Until string `json:"until,omitempty" yaml:"until,omitempty"`
}

// Step is one scripted action. Exactly one of Show, Promise or Dismiss is
// set, or only Snapshot.
type Step struct {
	At       string       `json:"at,omitempty" yaml:"at,omitempty"`
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Show     *toast.Event `json:"show,omitempty" yaml:"show,omitempty"`
	Promise  *PromiseStep `json:"promise,omitempty" yaml:"promise,omitempty"`
	Dismiss  string       `json:"dismiss,omitempty" yaml:"dismiss,omitempty"`
	Snapshot bool         `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

// PromiseStep simulates an operation that settles After its start.
type PromiseStep struct {
	Loading     string `json:"loading,omitempty" yaml:"loading,omitempty"`
	Success     string `json:"success,omitempty" yaml:"success,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	Fail        bool   `json:"fail,omitempty" yaml:"fail,omitempty"`
	After       string `json:"after,omitempty" yaml:"after,omitempty"`
	Dismissable bool   `json:"dismissable,omitempty" yaml:"dismissable,omitempty"`
}

func simulateCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		height float64
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <script>",
		Short: "Replay a toast script on a virtual clock",
		Long: `Replay a YAML or JSON toast script and print snapshots of the stack.

Time is simulated, so scripts run instantly and produce the same
output on every run.

Example script:

  steps:
    - at: 0s
      name: saved
      show: {level: success, message: Saved}
    - at: 500ms
      promise: {loading: Uploading..., success: Uploaded, after: 2s}
      snapshot: true
    - at: 1s
      dismiss: saved
  until: 10s

Examples:
  toaster simulate demo.yaml
  toaster simulate demo.json --format=html
  toaster simulate demo.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "state" && format != "html" {
				return errors.New("T300").WithField("format").
					WithDetail(strconv.Quote(format) + " is not one of state, html")
			}
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			tc, err := cfg.ToastConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log, cmd.ErrOrStderr())
			opts := simulateOptions{
				out:    cmd.OutOrStdout(),
				format: format,
				height: height,
				logger: logger,
			}
			run := func() error {
				script, err := LoadScript(args[0])
				if err != nil {
					return err
				}
				return simulate(script, tc, opts)
			}

			if !watch {
				return run()
			}
			if err := run(); err != nil {
				errors.Fprint(cmd.ErrOrStderr(), err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			info(cmd.OutOrStdout(), "Watching %s for changes", args[0])
			return watchFile(ctx, args[0], logger, func() {
				if err := run(); err != nil {
					errors.Fprint(cmd.ErrOrStderr(), err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "state", "Snapshot format: state, html")
	cmd.Flags().Float64Var(&height, "height", 64, "Rendered height of each toast in pixels")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the script when it changes")

	return cmd
}

// LoadScript reads a script file. The format follows the file extension.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("T300").Wrap(err).WithDetail(err.Error())
	}
	return ParseScript(data, filepath.Ext(path))
}

// ParseScript decodes a script. ext selects JSON (".json") or YAML
// (".yaml", ".yml").
func ParseScript(data []byte, ext string) (*Script, error) {
	var s Script
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, errors.New("T300").Wrap(err).WithDetail(err.Error())
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, errors.New("T300").Wrap(err).WithDetail(err.Error())
		}
	default:
		return nil, errors.New("T122").WithDetail("Scripts must end in .json, .yaml or .yml.")
	}
	return &s, nil
}

type simulateOptions struct {
	out    io.Writer
	format string
	height float64
	logger *slog.Logger
}

// action is one entry of the compiled timeline.
type action struct {
	at  time.Duration
	run func(*simulation) error
}

// pendingPromise connects a promise step to its settle action.
type pendingPromise struct {
	release chan struct{}
	task    *toast.Task
}

type simulation struct {
	n     *toast.Notifier
	root  *memdom.Node
	clock *clock.Virtual
	start time.Time
	names map[string]toast.ID
	opts  simulateOptions
}

// epoch is the fixed start of simulated time.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func simulate(script *Script, cfg toast.Config, opts simulateOptions) error {
	actions, until, err := compile(script)
	if err != nil {
		return err
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	doc := memdom.NewDocument(memdom.WithFixedHeight(opts.height))
	vc := clock.NewVirtual(epoch)
	n, err := toast.New(doc, doc.Body(), cfg,
		toast.WithClock(vc),
		toast.WithLogger(opts.logger),
	)
	if err != nil {
		return err
	}
	defer n.Close()

	s := &simulation{
		n:     n,
		root:  n.Container().Root().(*memdom.Node),
		clock: vc,
		start: epoch,
		names: make(map[string]toast.ID),
		opts:  opts,
	}

	for _, a := range actions {
		s.advanceTo(a.at)
		if err := a.run(s); err != nil {
			return err
		}
	}
	s.advanceTo(until)
	s.print("end")
	return nil
}

// compile turns script steps into a timeline sorted by offset. Actions at
// the same offset keep script order.
func compile(script *Script) ([]action, time.Duration, error) {
	if script == nil || len(script.Steps) == 0 {
		return nil, 0, errors.New("T300").WithField("steps").WithDetail("script has no steps")
	}

	var actions []action
	for i, step := range script.Steps {
		step := step
		field := fmt.Sprintf("steps[%d]", i)
		at, err := scriptDuration(field+".at", step.At)
		if err != nil {
			return nil, 0, err
		}

		set := 0
		for _, ok := range []bool{step.Show != nil, step.Promise != nil, step.Dismiss != ""} {
			if ok {
				set++
			}
		}
		if set > 1 || (set == 0 && !step.Snapshot) {
			return nil, 0, errors.New("T300").WithField(field).
				WithDetail("a step needs exactly one of show, promise or dismiss, or snapshot alone")
		}

		switch {
		case step.Show != nil:
			actions = append(actions, action{at: at, run: func(s *simulation) error {
				id, err := s.n.Apply(*step.Show)
				if err != nil {
					return errors.New("T300").WithField(field + ".show").WithDetail(err.Error()).Wrap(err)
				}
				s.name(step.Name, id)
				return nil
			}})

		case step.Promise != nil:
			after, err := scriptDuration(field+".promise.after", step.Promise.After)
			if err != nil {
				return nil, 0, err
			}
			p := &pendingPromise{release: make(chan struct{})}
			ps := *step.Promise
			actions = append(actions,
				action{at: at, run: func(s *simulation) error {
					p.task = s.startPromise(ps, p.release)
					s.name(step.Name, p.task.ID())
					return nil
				}},
				action{at: at + after, run: func(s *simulation) error {
					close(p.release)
					select {
					case <-p.task.Done():
						return nil
					case <-time.After(5 * time.Second):
						return errors.New("T300").WithField(field + ".promise").WithDetail("promise did not settle")
					}
				}},
			)

		case step.Dismiss != "":
			actions = append(actions, action{at: at, run: func(s *simulation) error {
				id, ok := s.names[step.Dismiss]
				if !ok {
					return errors.New("T300").WithField(field + ".dismiss").
						WithDetail("no toast named " + strconv.Quote(step.Dismiss))
				}
				if !s.n.Dismiss(id) {
					s.opts.logger.Debug("toast already gone", "name", step.Dismiss, "toast_id", id)
				}
				return nil
			}})
		}

		if step.Snapshot {
			actions = append(actions, action{at: at, run: func(s *simulation) error {
				s.print("t=" + s.elapsed().String())
				return nil
			}})
		}
	}

	until, err := scriptDuration("until", script.Until)
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(actions, func(i, j int) bool { return actions[i].at < actions[j].at })
	return actions, until, nil
}

func scriptDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.New("T103").WithField(field).
			WithDetail(s + " is not a non-negative duration such as 3s or 500ms")
	}
	return d, nil
}

func (s *simulation) elapsed() time.Duration {
	return s.clock.Now().Sub(s.start)
}

func (s *simulation) advanceTo(at time.Duration) {
	if d := at - s.elapsed(); d > 0 {
		s.clock.Advance(d)
	}
}

func (s *simulation) name(name string, id toast.ID) {
	if name != "" {
		s.names[name] = id
	}
}

func (s *simulation) startPromise(ps PromiseStep, release <-chan struct{}) *toast.Task {
	op := func(ctx context.Context) (struct{}, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
		if ps.Fail {
			return struct{}{}, fmt.Errorf("simulated failure")
		}
		return struct{}{}, nil
	}

	po := toast.PromiseOptions[struct{}]{
		Loading:     ps.Loading,
		Dismissable: ps.Dismissable,
	}
	if ps.Success != "" {
		po.Success = func(struct{}) (string, error) { return ps.Success, nil }
	}
	if ps.Error != "" {
		po.Error = func(error) (string, error) { return ps.Error, nil }
	}
	return toast.Promise(s.n, op, po)
}

// print writes the current stack in the configured format.
func (s *simulation) print(label string) {
	w := s.opts.out
	fmt.Fprintf(w, "--- %s ---\n", label)

	if s.opts.format == "html" {
		s.n.View(func(dom.Element) {
			fmt.Fprintln(w, s.root.OuterHTML())
		})
		return
	}

	snap := s.n.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	for _, t := range snap {
		fmt.Fprintf(w, "#%s %s %s offset=%s z=%d visible=%t %q\n",
			t.ID, t.Kind, t.State,
			strconv.FormatFloat(t.Slot.Offset, 'f', -1, 64),
			t.Slot.ZIndex, t.Slot.Visible, t.Message)
	}
}
