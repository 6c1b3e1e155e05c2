package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/filter"
	"github.com/san-kum/pengviz/internal/metrics"
	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/reactive"
	"github.com/san-kum/pengviz/internal/render"
)

// subscriberBuffer bounds the notifications queued for a slow subscriber.
const subscriberBuffer = 32

type options struct {
	id      string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*options)

func WithID(id string) Option { return func(o *options) { o.id = id } }

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(o *options) { o.metrics = m } }

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Session is one reactive dashboard. All methods are safe for concurrent
// use; they are serialized by the session's mutex.
type Session struct {
	id      string
	ds      *dataset.Dataset
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	closed bool
	g      *reactive.Graph

	species         *reactive.Input[filter.Selection]
	attribute       *reactive.Input[penguin.Column]
	interactiveBins *reactive.Input[int]
	staticBins      *reactive.Input[int]
	filtered        *reactive.Calc[dataset.View]
	outputs         map[string]func() render.Artifact

	subs    map[int]chan []string
	nextSub int
}

// New builds a session over ds starting from in.
func New(ds *dataset.Dataset, in Inputs, opts ...Option) *Session {
	o := buildOptions(opts)
	if o.id == "" {
		o.id = uuid.NewString()
	}
	s := &Session{
		id:      o.id,
		ds:      ds,
		logger:  o.logger.With(zap.String("session", o.id)),
		metrics: o.metrics,
		g:       reactive.NewGraph(),
		outputs: make(map[string]func() render.Artifact),
		subs:    make(map[int]chan []string),
	}
	s.wire(in)
	s.metrics.SessionOpened()
	return s
}

func (s *Session) wire(in Inputs) {
	g := s.g
	s.species = reactive.NewInput(g, InputSpecies, in.Species, filter.Selection.Equal)
	s.attribute = reactive.NewInput(g, InputAttribute, in.Attribute, reactive.Equal[penguin.Column])
	s.interactiveBins = reactive.NewInput(g, InputInteractiveBins, in.InteractiveBins, reactive.Equal[int])
	s.staticBins = reactive.NewInput(g, InputStaticBins, in.StaticBins, reactive.Equal[int])

	s.filtered = reactive.NewCalc(g, render.DepFiltered, []reactive.Node{s.species}, func() dataset.View {
		return filter.BySpecies(s.ds.All(), s.species.Get())
	})

	nodes := map[string]reactive.Node{
		render.DepFiltered:        s.filtered,
		render.DepAttribute:       s.attribute,
		render.DepInteractiveBins: s.interactiveBins,
		render.DepStaticBins:      s.staticBins,
	}
	fns := map[string]func() render.Artifact{
		render.OutputDataTable: func() render.Artifact {
			return render.DataTable(s.filtered.Get())
		},
		render.OutputDataGrid: func() render.Artifact {
			return render.DataGrid(s.filtered.Get())
		},
		render.OutputInteractiveHistogram: func() render.Artifact {
			return render.InteractiveHistogram(s.filtered.Get(), s.attribute.Get(), s.interactiveBins.Get())
		},
		render.OutputStaticHistogram: func() render.Artifact {
			return render.StaticHistogram(s.filtered.Get(), s.attribute.Get(), s.staticBins.Get())
		},
		render.OutputScatterplot: func() render.Artifact {
			return render.Scatter(s.filtered.Get())
		},
	}
	for _, spec := range render.Outputs() {
		deps := make([]reactive.Node, len(spec.Deps))
		for i, d := range spec.Deps {
			deps[i] = nodes[d]
		}
		out := reactive.NewOutput(g, spec.Name, deps, fns[spec.Name])
		s.outputs[spec.Name] = out.Get
	}

	g.OnRecompute(func(name string, kind reactive.Kind, elapsed time.Duration) {
		s.metrics.ObserveRecompute(name, kind.String(), elapsed)
		s.logger.Debug("recomputed", zap.String("node", name), zap.Duration("elapsed", elapsed))
	})
	g.OnInvalidate(s.broadcast)
}

func (s *Session) ID() string { return s.id }

func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// Set writes one input from its UI string form and reports whether the
// value changed. Bin counts never fail to parse; see render.ParseBins.
func (s *Session) Set(name, value string) (bool, error) {
	switch name {
	case InputSpecies:
		sel, err := filter.ParseSelection(value)
		if err != nil {
			return false, err
		}
		return s.SetSpecies(sel)
	case InputAttribute:
		col, err := penguin.ParseColumn(value)
		if err != nil {
			return false, err
		}
		return s.SetAttribute(col)
	case InputInteractiveBins, InputStaticBins:
		return s.SetBins(name, render.ParseBins(value))
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownInput, name)
}

func (s *Session) SetSpecies(sel filter.Selection) (bool, error) {
	return write(s, s.species, sel)
}

func (s *Session) SetAttribute(col penguin.Column) (bool, error) {
	return write(s, s.attribute, col)
}

// SetBins writes interactive_bins or static_bins.
func (s *Session) SetBins(name string, n int) (bool, error) {
	switch name {
	case InputInteractiveBins:
		return write(s, s.interactiveBins, n)
	case InputStaticBins:
		return write(s, s.staticBins, n)
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownInput, name)
}

// Apply writes every input of in and reports which inputs changed.
func (s *Session) Apply(in Inputs) ([]string, error) {
	var changed []string
	steps := []struct {
		name string
		set  func() (bool, error)
	}{
		{InputSpecies, func() (bool, error) { return s.SetSpecies(in.Species) }},
		{InputAttribute, func() (bool, error) { return s.SetAttribute(in.Attribute) }},
		{InputInteractiveBins, func() (bool, error) { return s.SetBins(InputInteractiveBins, in.InteractiveBins) }},
		{InputStaticBins, func() (bool, error) { return s.SetBins(InputStaticBins, in.StaticBins) }},
	}
	for _, step := range steps {
		ok, err := step.set()
		if err != nil {
			return changed, err
		}
		if ok {
			changed = append(changed, step.name)
		}
	}
	return changed, nil
}

func write[T any](s *Session, in *reactive.Input[T], v T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	changed := in.Set(v)
	s.metrics.ObserveInput(in.Name(), changed)
	s.logger.Debug("input set", zap.String("input", in.Name()), zap.Any("value", v), zap.Bool("changed", changed))
	return changed, nil
}

// Inputs returns the current value of every input.
func (s *Session) Inputs() Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Inputs{
		Species:         s.species.Get(),
		Attribute:       s.attribute.Get(),
		InteractiveBins: s.interactiveBins.Get(),
		StaticBins:      s.staticBins.Get(),
	}
}

// Filtered returns the current filtered view.
func (s *Session) Filtered() dataset.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered.Get()
}

// Output returns the current artifact of the named output, recomputing it
// if an input it reads changed since the last call.
func (s *Session) Output(name string) (render.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	get, ok := s.outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", render.ErrUnknownOutput, name)
	}
	return get(), nil
}

// Flush recomputes every stale output and returns their names.
func (s *Session) Flush() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.g.Flush()
}

// Runs returns how many times each calc and output has executed.
func (s *Session) Runs() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Runs()
}

// Graph describes the reactive graph of the session.
func (s *Session) Graph() []reactive.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Describe()
}

// Subscribe returns a channel receiving the outputs invalidated by each
// input write, and a func that cancels the subscription. Notifications for
// a subscriber whose buffer is full are dropped.
func (s *Session) Subscribe() (<-chan []string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan []string, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Subscribers returns the number of open subscriptions.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// broadcast runs under s.mu from inside Input.Set.
func (s *Session) broadcast(outputs []string) {
	for id, ch := range s.subs {
		select {
		case ch <- outputs:
		default:
			s.logger.Warn("subscriber lagging, notification dropped", zap.Int("subscriber", id))
		}
	}
}

// Close ends every subscription. Later writes fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.metrics.SessionClosed()
}
