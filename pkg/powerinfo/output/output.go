// Package output renders powerinfo results in the formats selectable with
// --output. Formatters register themselves by name in init functions:
//
//	f, err := output.Get("json")
//	if err != nil {
//	    return err
//	}
//	return f.Format(os.Stdout, result)
package output

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// CoreReport is the core-type section of a Result.
type CoreReport struct {
	Hybrid      bool `json:"hybrid" yaml:"hybrid"`
	Performance int  `json:"performance" yaml:"performance"`
	Efficiency  int  `json:"efficiency" yaml:"efficiency"`
}

// NewCoreReport builds the core section from detected counts.
func NewCoreReport(c types.CoreTypeCounts) *CoreReport {
	return &CoreReport{Hybrid: c.HybridDetected(), Performance: c.Performance, Efficiency: c.Efficiency}
}

// SchemeReport is one scheme and the settings selected from it.
type SchemeReport struct {
	Scheme   types.Scheme        `json:"scheme" yaml:"scheme"`
	Active   bool                `json:"active" yaml:"active"`
	Settings []types.SettingInfo `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// Result is everything a command may print. Sections left nil or empty are
// not rendered.
type Result struct {
	Cores *CoreReport `json:"cores,omitempty" yaml:"cores,omitempty"`

	// ActiveRequested marks that the active scheme section is shown. When
	// Active is nil the section reports the lookup failure. ShowThrottle adds
	// the processor state bounds to the plain layout.
	ActiveRequested bool                `json:"-" yaml:"-"`
	ShowThrottle    bool                `json:"-" yaml:"-"`
	Active          *types.ActiveScheme `json:"active,omitempty" yaml:"active,omitempty"`
	ActiveError     string              `json:"active_error,omitempty" yaml:"active_error,omitempty"`

	Schemes    []SchemeReport        `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Collisions []types.NameCollision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Warnings   []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Settings returns every setting of every scheme in report order.
func (r *Result) Settings() []types.SettingInfo {
	var out []types.SettingInfo
	for _, s := range r.Schemes {
		out = append(out, s.Settings...)
	}
	return out
}

// HasSettings reports whether any scheme carries settings.
func (r *Result) HasSettings() bool {
	return slices.ContainsFunc(r.Schemes, func(s SchemeReport) bool { return len(s.Settings) > 0 })
}

// Formatter renders a Result.
type Formatter interface {
	Format(w io.Writer, r *Result) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry maps names to formatter factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]FormatterFactory{}}
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, r.available())
	}
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available()
}

func (r *Registry) available() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to DefaultRegistry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a formatter from DefaultRegistry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available lists DefaultRegistry.
func Available() []string {
	return DefaultRegistry.Available()
}
