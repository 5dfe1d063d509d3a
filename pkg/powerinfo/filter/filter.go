// Package filter selects which settings appear in a report.
package filter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// DefaultContains are the name fragments the default report shows: the two
// heterogeneous scheduling policies of hybrid processors.
var DefaultContains = []string{
	"heterogeneous thread scheduling policy",
	"heterogeneous short running thread scheduling policy",
}

// SortField orders filtered settings.
type SortField int

const (
	// SortNone keeps enumeration order.
	SortNone SortField = iota
	// SortName orders by setting name.
	SortName
	// SortSubgroup orders by subgroup name, then setting name.
	SortSubgroup
)

var sortFieldNames = []string{"none", "name", "subgroup"}

// String returns the flag spelling of the field.
func (s SortField) String() string {
	if int(s) < len(sortFieldNames) {
		return sortFieldNames[s]
	}
	return "none"
}

// ErrInvalidSortField is returned by ParseSortField.
var ErrInvalidSortField = errors.New("invalid sort field")

// ParseSortField parses none, name or subgroup (case-insensitive).
func ParseSortField(s string) (SortField, error) {
	i := slices.Index(sortFieldNames, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return SortNone, fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
	return SortField(i), nil
}

// ErrInvalidPattern is returned by New when a glob does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// Filter holds setting selection criteria. Matching on setting names is
// case-insensitive; scheme names match exactly.
type Filter struct {
	// Contains keeps settings whose name contains any fragment.
	// Empty keeps every setting.
	Contains []string

	// Include keeps settings whose name matches any glob.
	Include []string

	// Exclude drops settings whose name matches any glob.
	Exclude []string

	// Schemes keeps settings of the named schemes only. Empty keeps all.
	Schemes []string

	// SortBy orders the result. SortNone keeps input order.
	SortBy SortField

	// Limit caps the number of settings per scheme. Zero is unlimited.
	Limit int

	include []glob.Glob
	exclude []glob.Glob
}

// Option configures a Filter.
type Option func(*Filter)

// WithContains replaces the name fragments.
func WithContains(fragments ...string) Option {
	return func(f *Filter) { f.Contains = fragments }
}

// WithInclude sets include globs.
func WithInclude(patterns ...string) Option {
	return func(f *Filter) { f.Include = patterns }
}

// WithExclude sets exclude globs.
func WithExclude(patterns ...string) Option {
	return func(f *Filter) { f.Exclude = patterns }
}

// WithSchemes restricts the report to the named schemes.
func WithSchemes(names ...string) Option {
	return func(f *Filter) { f.Schemes = names }
}

// WithSortBy sets the result order.
func WithSortBy(field SortField) Option {
	return func(f *Filter) { f.SortBy = field }
}

// WithLimit caps settings per scheme; negative values mean unlimited.
func WithLimit(n int) Option {
	return func(f *Filter) { f.Limit = max(n, 0) }
}

// New builds a Filter. Without options it selects DefaultContains.
func New(opts ...Option) (*Filter, error) {
	f := &Filter{Contains: DefaultContains}
	for _, opt := range opts {
		opt(f)
	}

	var err error
	if f.include, err = compile(f.Include); err != nil {
		return nil, err
	}
	if f.exclude, err = compile(f.Exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// MatchScheme reports whether settings of the scheme named name are shown.
func (f *Filter) MatchScheme(name string) bool {
	return len(f.Schemes) == 0 || slices.Contains(f.Schemes, name)
}

// Match reports whether a setting passes every criterion.
func (f *Filter) Match(s types.SettingInfo) bool {
	if !f.MatchScheme(s.SchemeName) {
		return false
	}

	name := strings.ToLower(s.Name)
	if len(f.Contains) > 0 && !slices.ContainsFunc(f.Contains, func(frag string) bool {
		return strings.Contains(name, strings.ToLower(frag))
	}) {
		return false
	}
	if matchAny(f.exclude, name) {
		return false
	}
	if len(f.include) > 0 && !matchAny(f.include, name) {
		return false
	}
	return true
}

func matchAny(globs []glob.Glob, name string) bool {
	return slices.ContainsFunc(globs, func(g glob.Glob) bool { return g.Match(name) })
}

// Apply returns the matching settings, ordered and limited. The input is not
// modified.
func (f *Filter) Apply(settings []types.SettingInfo) []types.SettingInfo {
	var out []types.SettingInfo
	for _, s := range settings {
		if f.Match(s) {
			out = append(out, s)
		}
	}

	switch f.SortBy {
	case SortName:
		slices.SortStableFunc(out, func(a, b types.SettingInfo) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortSubgroup:
		slices.SortStableFunc(out, func(a, b types.SettingInfo) int {
			return cmp.Or(
				cmp.Compare(strings.ToLower(a.SubgroupName), strings.ToLower(b.SubgroupName)),
				cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			)
		})
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
