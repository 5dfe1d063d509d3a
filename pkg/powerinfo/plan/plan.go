// Package plan reads declarative setting files and applies them to the power
// configuration.
//
// A plan lists settings by scheme and setting name with the values to write:
//
//	name: quiet
//	settings:
//	  - scheme: Balanced
//	    setting: Heterogeneous thread scheduling policy
//	    ac: 1
//	    dc: 1
//
// Plans may also be written in TOML when the file has a .toml extension.
package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// ErrInvalidPlan is returned for a plan that parses but cannot be applied.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan is one plan file. A nil Activate means every touched scheme is
// re-activated after the writes.
type Plan struct {
	Name     string    `yaml:"name,omitempty" toml:"name,omitempty"`
	Activate *bool     `yaml:"activate,omitempty" toml:"activate,omitempty"`
	Settings []Setting `yaml:"settings" toml:"settings"`

	// Path is the file the plan was loaded from.
	Path string `yaml:"-" toml:"-"`
}

// Setting is one entry of a plan. A nil AC or DC leaves that rail alone.
type Setting struct {
	Scheme  string  `yaml:"scheme" toml:"scheme"`
	Setting string  `yaml:"setting" toml:"setting"`
	AC      *uint32 `yaml:"ac,omitempty" toml:"ac,omitempty"`
	DC      *uint32 `yaml:"dc,omitempty" toml:"dc,omitempty"`
}

func (s Setting) value(r types.Rail) *uint32 {
	if r == types.DC {
		return s.DC
	}
	return s.AC
}

// ShouldActivate reports whether touched schemes are activated after the
// writes.
func (p *Plan) ShouldActivate() bool {
	return p.Activate == nil || *p.Activate
}

// Validate checks that every setting names a scheme, a setting and a value.
func (p *Plan) Validate() error {
	var errs []error
	for i, s := range p.Settings {
		switch {
		case s.Scheme == "":
			errs = append(errs, fmt.Errorf("settings[%d]: scheme is required", i))
		case s.Setting == "":
			errs = append(errs, fmt.Errorf("settings[%d]: setting is required", i))
		case s.AC == nil && s.DC == nil:
			errs = append(errs, fmt.Errorf("settings[%d]: ac or dc is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, errors.Join(errs...))
	}
	return nil
}

// Load reads and validates a YAML or TOML plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	var p Plan
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &p); err != nil {
			return nil, fmt.Errorf("parsing plan %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	p.Path = path

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

// Changes resolves the plan's names through acc. Entries that cannot be
// resolved are skipped and reported in the joined error.
func (p *Plan) Changes(acc *scheme.Accessor) ([]history.Change, error) {
	var (
		changes []history.Change
		errs    []error
	)
	for _, s := range p.Settings {
		ref, err := acc.Lookup(s.Scheme, s.Setting)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, rail := range types.Rails {
			v := s.value(rail)
			if v == nil {
				continue
			}
			changes = append(changes, history.Change{
				Ref:         ref,
				SchemeName:  s.Scheme,
				SettingName: s.Setting,
				Rail:        rail,
				New:         *v,
			})
		}
	}
	return changes, errors.Join(errs...)
}

// Apply writes the plan through acc and returns the attempted changes.
func Apply(acc *scheme.Accessor, p *Plan) ([]history.Change, error) {
	log := logging.Get("plan")

	changes, lookupErr := p.Changes(acc)
	if lookupErr != nil {
		log.Warn("plan entries skipped", "plan", p.Path, "error", lookupErr)
	}

	applied, runErr := history.Run(acc, changes, p.ShouldActivate())
	failed := 0
	for _, c := range applied {
		if !c.Applied() {
			failed++
		}
	}
	log.Info("plan applied", "plan", p.Path, "changes", len(applied), "failed", failed)

	return applied, errors.Join(lookupErr, runErr)
}
