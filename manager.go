package medusa

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Default target, used when Options.Targets is empty.
const (
	DefaultTargetID = "snakes"
	DefaultSelector = "m-snake"
)

// ErrMissingID is returned for a target configured without an id.
var ErrMissingID = errors.New("medusa: target id is required")

// Options configures a Manager.
type Options struct {
	// Targets are added on construction. Empty means DefaultTarget().
	Targets []TargetConfig
	// Resolver resolves TargetConfig.Selector. Nil means GlobResolver.
	Resolver Resolver
	// IDGenerator produces identity tags. Nil means RandomID.
	IDGenerator IDGenerator
	// Global receives events of targets with EmitGlobal set. Nil means a
	// Manager-owned Emitter, available from Events.
	Global Dispatcher
	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultTarget returns the configuration used when none is given: target
// "snakes" observing every node named "m-snake" under the host root.
func DefaultTarget() TargetConfig {
	return TargetConfig{
		ID:        DefaultTargetID,
		Selector:  DefaultSelector,
		Threshold: []float64{ThresholdFull},
		Mode:      ModeDefault,
	}
}

// Manager owns targets and the detectors attached to them. It is the only
// place detectors are created and disconnected.
//
// A Manager is not safe for concurrent use. Detector notifications must be
// delivered on the same goroutine as API calls, which Scene.Update does.
type Manager struct {
	host     Host
	reg      *registry
	ids      *Identity
	resolver Resolver
	global   Dispatcher
	events   *Emitter
	log      *zap.Logger
}

// New creates a Manager and adds the configured targets. If any target
// fails to be added, every target created so far is torn down and the
// error is returned.
func New(host Host, opts Options) (*Manager, error) {
	if host == nil {
		return nil, errors.New("medusa: nil host")
	}
	m := &Manager{
		host:     host,
		reg:      newRegistry(),
		ids:      NewIdentity(opts.IDGenerator),
		resolver: opts.Resolver,
		global:   opts.Global,
		log:      opts.Logger,
	}
	if m.resolver == nil {
		m.resolver = GlobResolver{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.log = m.log.Named("medusa")
	if m.global == nil {
		m.events = NewEmitter()
		m.global = m.events
	}

	targets := opts.Targets
	if len(targets) == 0 {
		targets = []TargetConfig{DefaultTarget()}
	}
	if err := m.AddTarget(targets...); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Events returns the Manager-owned global emitter, or nil when
// Options.Global was set.
func (m *Manager) Events() *Emitter {
	return m.events
}

// AddTarget registers and attaches each configuration independently. An id
// collision fails that configuration only, leaving the existing target
// untouched; the errors of all failed configurations are combined.
func (m *Manager) AddTarget(cfgs ...TargetConfig) error {
	var errs error
	for _, cfg := range cfgs {
		if cfg.ID == "" {
			errs = multierr.Append(errs, ErrMissingID)
			continue
		}
		errs = multierr.Append(errs, m.createTarget(cfg))
	}
	return errs
}

// createTarget registers a target for cfg and attaches its initial nodes.
// It fails only when the id is already registered.
func (m *Manager) createTarget(cfg TargetConfig) error {
	t := &Target{
		id:         cfg.ID,
		container:  cfg.Container,
		root:       cfg.Root,
		rootMargin: cfg.Offsets,
		mode:       cfg.Mode,
		emitGlobal: cfg.EmitGlobal,
		callback:   cfg.Callback,
		state:      StateUninitialized,
		m:          m,
	}
	if t.container == nil {
		t.container = m.host.Root()
	}
	switch {
	case t.mode == ModeByPixels:
		t.thresholds = ThresholdsByPixels()
	case len(cfg.Threshold) == 0:
		t.thresholds = []float64{ThresholdFull}
	default:
		t.thresholds = slices.Clone(cfg.Threshold)
	}

	if err := m.reg.add(t); err != nil {
		return err
	}

	nodes, err := m.nodeSource(t, cfg)
	if err != nil {
		m.warn(&InvalidNodeSourceWarning{ID: t.id, Reason: err})
		return nil
	}
	t.addElements(nodes)
	return nil
}

func (m *Manager) nodeSource(t *Target, cfg TargetConfig) ([]*Node, error) {
	if cfg.Nodes != nil {
		return cfg.Nodes, nil
	}
	if cfg.Selector == "" {
		return nil, errors.New("neither nodes nor selector given")
	}
	return m.resolver.Resolve(t.container, cfg.Selector)
}

// RemoveTarget stops observing every node of the target, releases its
// detector and deletes it. An unknown id is logged and ignored.
func (m *Manager) RemoveTarget(id string) {
	t := m.reg.get(id)
	if t == nil {
		m.warn(&NotFoundWarning{ID: id, Op: "remove"})
		return
	}
	m.teardown(t)
}

func (m *Manager) teardown(t *Target) {
	for len(t.elements) > 0 {
		t.drop(len(t.elements)-1, t.detector)
	}
	// Targets that never observed anything have nothing to drop.
	if t.state != StateEmpty {
		m.release(t)
	}
}

// PushToTarget adds nodes to the target. Nodes are tagged with an identity
// on first use and keep it afterwards. An unknown id is logged and ignored.
func (m *Manager) PushToTarget(id string, nodes ...*Node) {
	t := m.reg.get(id)
	if t == nil {
		m.warn(&NotFoundWarning{ID: id, Op: "push"})
		return
	}
	t.addElements(nodes)
}

// PullFromTarget removes nodes from the target, matching them by identity
// tag. Unknown ids and nodes the target does not observe are logged and
// ignored. Removing the last node deletes the target.
func (m *Manager) PullFromTarget(id string, nodes ...*Node) {
	t := m.reg.get(id)
	if t == nil {
		m.warn(&NotFoundWarning{ID: id, Op: "pull"})
		return
	}
	t.removeElements(nodes)
}

// Target returns the target registered under id.
func (m *Manager) Target(id string) (*Target, bool) {
	t := m.reg.get(id)
	return t, t != nil
}

// IDs returns the registered target ids in insertion order.
func (m *Manager) IDs() []string {
	return m.reg.ids()
}

// Len returns the number of registered targets.
func (m *Manager) Len() int {
	return m.reg.len()
}

// Identity returns n's identity tag, if it was ever added to a target.
func (m *Manager) Identity(n *Node) (string, bool) {
	return m.ids.Of(n)
}

// Close tears down every target and forgets all identity tags.
func (m *Manager) Close() {
	for _, id := range m.reg.ids() {
		if t := m.reg.get(id); t != nil {
			m.teardown(t)
		}
	}
	m.ids.Reset()
}

// attach creates t's detector.
func (m *Manager) attach(t *Target) {
	t.detector = m.host.NewDetector(t.onNotification, DetectorOptions{
		Root:       t.root,
		RootMargin: t.rootMargin,
		Thresholds: t.thresholds,
	})
	t.state = StateDetecting
	m.log.Debug("detector attached", targetFields(t)...)
}

// release disconnects t's detector and deletes t from the registry.
func (m *Manager) release(t *Target) {
	if t.detector != nil {
		t.detector.Disconnect()
		t.detector = nil
	}
	t.state = StateEmpty
	m.reg.remove(t)
	m.log.Debug("target released", targetFields(t)...)
}

func (m *Manager) warn(err error) {
	m.log.Warn("diagnostic", zap.Error(err))
}
