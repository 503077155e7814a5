package medusa

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// TargetSpec is the declarative form of a TargetConfig.
type TargetSpec struct {
	ID string `toml:"id"`
	// Container selects the container below the root; empty means the root.
	Container string `toml:"container"`
	// Nodes is a selector resolved against the container.
	Nodes string `toml:"nodes"`
	// Threshold is a number or an array of numbers.
	Threshold  any    `toml:"threshold"`
	Offsets    string `toml:"offsets"`
	EmitGlobal bool   `toml:"emit_global"`
	Mode       Mode   `toml:"mode"`
}

// Config is a parsed target configuration file:
//
//	[[targets]]
//	id = "cards"
//	nodes = "list/card-*"
//	threshold = [0, 0.5, 1]
//	offsets = "0px 0px -10%"
//	mode = "once"
//
// An optional [[steps]] array describes a camera Script.
type Config struct {
	Targets []TargetSpec `toml:"targets"`
	Steps   []ScriptStep `toml:"steps"`
}

// LoadConfig parses and validates a TOML configuration.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads and parses a TOML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Validate checks that ids are present and unique, thresholds are numbers
// in [0, 1] and margins parse. All problems are reported together.
func (c *Config) Validate() error {
	var errs error
	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		if t.ID == "" {
			errs = multierr.Append(errs, errors.Wrapf(ErrMissingID, "targets[%d]", i))
			continue
		}
		if seen[t.ID] {
			errs = multierr.Append(errs, &DuplicateIDError{ID: t.ID})
		}
		seen[t.ID] = true
		if _, err := t.thresholds(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "target %q", t.ID))
		}
		if _, err := parseRootMargin(t.Offsets); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "target %q", t.ID))
		}
	}
	if len(c.Steps) > 0 {
		if _, err := NewScript(c.Steps); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// thresholds converts the decoded threshold value.
func (t TargetSpec) thresholds() ([]float64, error) {
	var out []float64
	switch v := t.Threshold.(type) {
	case nil:
		return nil, nil
	case []any:
		for _, item := range v {
			f, err := toFloat(item)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	default:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	for _, f := range out {
		if f < 0 || f > 1 {
			return nil, errors.Errorf("threshold %v out of range [0, 1]", f)
		}
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, errors.Errorf("threshold %#v is not a number", v)
	}
}

// TargetConfigs resolves the specs against root. Container selectors use
// the first match. Callbacks are attached afterwards by the caller.
func (c *Config) TargetConfigs(root *Node, resolver Resolver) ([]TargetConfig, error) {
	if resolver == nil {
		resolver = GlobResolver{}
	}
	out := make([]TargetConfig, 0, len(c.Targets))
	for _, spec := range c.Targets {
		container := root
		if spec.Container != "" {
			found, err := resolver.Resolve(root, spec.Container)
			if err != nil {
				return nil, errors.Wrapf(err, "target %q container", spec.ID)
			}
			if len(found) == 0 {
				return nil, errors.Errorf("target %q: container %q matched nothing", spec.ID, spec.Container)
			}
			container = found[0]
		}
		th, err := spec.thresholds()
		if err != nil {
			return nil, errors.Wrapf(err, "target %q", spec.ID)
		}
		out = append(out, TargetConfig{
			ID:         spec.ID,
			Container:  container,
			Selector:   spec.Nodes,
			Threshold:  th,
			Offsets:    spec.Offsets,
			EmitGlobal: spec.EmitGlobal,
			Mode:       spec.Mode,
		})
	}
	return out, nil
}

// Script returns the configured camera script, or nil without steps.
func (c *Config) Script() (*Script, error) {
	if len(c.Steps) == 0 {
		return nil, nil
	}
	return NewScript(c.Steps)
}
