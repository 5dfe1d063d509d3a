package powercfg

import (
	"fmt"
	"slices"
	"sync"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

type memNode struct {
	guid        types.GUID
	name        string
	description string
}

type memSetting struct {
	memNode
	values    [2]uint32
	failRead  [2]bool
	failWrite [2]bool
}

type memSubgroup struct {
	memNode
	settings []*memSetting
}

type memScheme struct {
	memNode
	subgroups []*memSubgroup
}

// Memory is an in-memory power configuration store implementing API.
// It is safe for concurrent use.
//
// A Memory opened with OpenMemoryFile writes itself back to its file after
// every successful mutation, so state survives across invocations.
type Memory struct {
	mu      sync.RWMutex
	schemes []*memScheme
	active  types.GUID
	faults  map[string]uint32
	path    string
}

var _ API = (*Memory)(nil)

// NewMemory builds a store from f. Duplicate GUIDs at the same level are
// rejected. A zero Active selects the first scheme.
func NewMemory(f Fixture) (*Memory, error) {
	m := &Memory{faults: map[string]uint32{}}

	seenSchemes := map[types.GUID]bool{}
	for _, fs := range f.Schemes {
		if seenSchemes[fs.GUID] {
			return nil, fmt.Errorf("duplicate scheme %s", fs.GUID)
		}
		seenSchemes[fs.GUID] = true

		s := &memScheme{memNode: memNode{fs.GUID, fs.Name, fs.Description}}
		seenSubgroups := map[types.GUID]bool{}
		for _, fg := range fs.Subgroups {
			if seenSubgroups[fg.GUID] {
				return nil, fmt.Errorf("duplicate subgroup %s in scheme %s", fg.GUID, fs.GUID)
			}
			seenSubgroups[fg.GUID] = true

			g := &memSubgroup{memNode: memNode{fg.GUID, fg.Name, fg.Description}}
			seenSettings := map[types.GUID]bool{}
			for _, fv := range fg.Settings {
				if seenSettings[fv.GUID] {
					return nil, fmt.Errorf("duplicate setting %s in %s/%s", fv.GUID, fs.GUID, fg.GUID)
				}
				seenSettings[fv.GUID] = true

				v := &memSetting{
					memNode: memNode{fv.GUID, fv.Name, fv.Description},
					values:  [2]uint32{fv.AC, fv.DC},
				}
				for _, r := range fv.FailRead {
					v.failRead[r] = true
				}
				for _, r := range fv.FailWrite {
					v.failWrite[r] = true
				}
				g.settings = append(g.settings, v)
			}
			s.subgroups = append(s.subgroups, g)
		}
		m.schemes = append(m.schemes, s)
	}

	m.active = f.Active
	if m.active.IsZero() && len(m.schemes) > 0 {
		m.active = m.schemes[0].guid
	}
	if !m.active.IsZero() && m.scheme(m.active) == nil {
		return nil, fmt.Errorf("active scheme %s is not defined", m.active)
	}
	return m, nil
}

// OpenMemoryFile loads a fixture from path and persists every later
// mutation back to it.
func OpenMemoryFile(path string) (*Memory, error) {
	f, err := LoadFixture(path)
	if err != nil {
		return nil, err
	}
	m, err := NewMemory(f)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// Fail makes every later call of op return a CallError with code.
// A zero code clears the fault.
func (m *Memory) Fail(op string, code uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if code == 0 {
		delete(m.faults, op)
		return
	}
	m.faults[op] = code
}

// Fixture exports the current state.
func (m *Memory) Fixture() Fixture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.export()
}

func (m *Memory) export() Fixture {
	f := Fixture{Active: m.active}
	for _, s := range m.schemes {
		fs := FixtureScheme{GUID: s.guid, Name: s.name, Description: s.description}
		for _, g := range s.subgroups {
			fg := FixtureSubgroup{GUID: g.guid, Name: g.name, Description: g.description}
			for _, v := range g.settings {
				fv := FixtureSetting{
					GUID:        v.guid,
					Name:        v.name,
					Description: v.description,
					AC:          v.values[types.AC],
					DC:          v.values[types.DC],
				}
				for _, r := range types.Rails {
					if v.failRead[r] {
						fv.FailRead = append(fv.FailRead, r)
					}
					if v.failWrite[r] {
						fv.FailWrite = append(fv.FailWrite, r)
					}
				}
				fg.Settings = append(fg.Settings, fv)
			}
			fs.Subgroups = append(fs.Subgroups, fg)
		}
		f.Schemes = append(f.Schemes, fs)
	}
	return f
}

// persist must be called with m.mu held for writing.
func (m *Memory) persist() {
	if m.path == "" {
		return
	}
	if err := SaveFixture(m.path, m.export()); err != nil {
		logging.Get("powercfg").Warn("persisting memory store failed", "path", m.path, "error", err)
	}
}

func validRail(r types.Rail) bool {
	return r == types.AC || r == types.DC
}

// fault must be called with m.mu held.
func (m *Memory) fault(op string) error {
	if code, ok := m.faults[op]; ok {
		return &CallError{Op: op, Code: code}
	}
	return nil
}

func (m *Memory) scheme(guid types.GUID) *memScheme {
	i := slices.IndexFunc(m.schemes, func(s *memScheme) bool { return s.guid == guid })
	if i < 0 {
		return nil
	}
	return m.schemes[i]
}

func (m *Memory) subgroup(scheme, subgroup types.GUID) *memSubgroup {
	s := m.scheme(scheme)
	if s == nil {
		return nil
	}
	i := slices.IndexFunc(s.subgroups, func(g *memSubgroup) bool { return g.guid == subgroup })
	if i < 0 {
		return nil
	}
	return s.subgroups[i]
}

func (m *Memory) setting(ref types.SettingRef) *memSetting {
	g := m.subgroup(ref.Scheme, ref.Subgroup)
	if g == nil {
		return nil
	}
	i := slices.IndexFunc(g.settings, func(v *memSetting) bool { return v.guid == ref.Setting })
	if i < 0 {
		return nil
	}
	return g.settings[i]
}

func (m *Memory) node(p Path) *memNode {
	switch {
	case !p.Setting.IsZero():
		if v := m.setting(types.SettingRef{Scheme: p.Scheme, Subgroup: p.Subgroup, Setting: p.Setting}); v != nil {
			return &v.memNode
		}
	case !p.Subgroup.IsZero():
		if g := m.subgroup(p.Scheme, p.Subgroup); g != nil {
			return &g.memNode
		}
	default:
		if s := m.scheme(p.Scheme); s != nil {
			return &s.memNode
		}
	}
	return nil
}

// EnumerateSchemes implements API.
func (m *Memory) EnumerateSchemes(index uint32) (types.GUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault(OpEnumerate); err != nil {
		return types.NilGUID, err
	}
	if int(index) >= len(m.schemes) {
		return types.NilGUID, ErrNoMoreItems
	}
	return m.schemes[index].guid, nil
}

// EnumerateSubgroups implements API.
func (m *Memory) EnumerateSubgroups(scheme types.GUID, index uint32) (types.GUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault(OpEnumerate); err != nil {
		return types.NilGUID, err
	}
	s := m.scheme(scheme)
	if s == nil {
		return types.NilGUID, &CallError{Op: OpEnumerate, Code: codeFileNotFound}
	}
	if int(index) >= len(s.subgroups) {
		return types.NilGUID, ErrNoMoreItems
	}
	return s.subgroups[index].guid, nil
}

// EnumerateSettings implements API.
func (m *Memory) EnumerateSettings(scheme, subgroup types.GUID, index uint32) (types.GUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault(OpEnumerate); err != nil {
		return types.NilGUID, err
	}
	g := m.subgroup(scheme, subgroup)
	if g == nil {
		return types.NilGUID, &CallError{Op: OpEnumerate, Code: codeFileNotFound}
	}
	if int(index) >= len(g.settings) {
		return types.NilGUID, ErrNoMoreItems
	}
	return g.settings[index].guid, nil
}

// ReadFriendlyName implements API.
func (m *Memory) ReadFriendlyName(p Path) (string, error) {
	return m.readText(OpReadFriendlyName, p, func(n *memNode) string { return n.name })
}

// ReadDescription implements API.
func (m *Memory) ReadDescription(p Path) (string, error) {
	return m.readText(OpReadDescription, p, func(n *memNode) string { return n.description })
}

func (m *Memory) readText(op string, p Path, field func(*memNode) string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault(op); err != nil {
		return "", err
	}
	n := m.node(p)
	if n == nil {
		return "", &CallError{Op: op, Code: codeFileNotFound}
	}
	text := field(n)
	if text == "" {
		return "", ErrNameUnavailable
	}
	return text, nil
}

// ReadValue implements API.
func (m *Memory) ReadValue(rail types.Rail, ref types.SettingRef) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	op := ReadOp(rail)
	if err := m.fault(op); err != nil {
		return 0, err
	}
	if !validRail(rail) {
		return 0, &CallError{Op: op, Code: codeInvalidParameter}
	}
	v := m.setting(ref)
	if v == nil {
		return 0, &CallError{Op: op, Code: codeFileNotFound}
	}
	if v.failRead[rail] {
		return 0, &CallError{Op: op, Code: codeAccessDenied}
	}
	return v.values[rail], nil
}

// WriteValue implements API.
func (m *Memory) WriteValue(rail types.Rail, ref types.SettingRef, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := WriteOp(rail)
	if err := m.fault(op); err != nil {
		return err
	}
	if !validRail(rail) {
		return &CallError{Op: op, Code: codeInvalidParameter}
	}
	v := m.setting(ref)
	if v == nil {
		return &CallError{Op: op, Code: codeFileNotFound}
	}
	if v.failWrite[rail] {
		return &CallError{Op: op, Code: codeAccessDenied}
	}
	v.values[rail] = value
	m.persist()
	return nil
}

// ActiveScheme implements API.
func (m *Memory) ActiveScheme() (types.GUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault(OpGetActiveScheme); err != nil {
		return types.NilGUID, err
	}
	if m.active.IsZero() {
		return types.NilGUID, &CallError{Op: OpGetActiveScheme, Code: codeFileNotFound}
	}
	return m.active, nil
}

// SetActiveScheme implements API.
func (m *Memory) SetActiveScheme(scheme types.GUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault(OpSetActiveScheme); err != nil {
		return err
	}
	if m.scheme(scheme) == nil {
		return &CallError{Op: OpSetActiveScheme, Code: codeInvalidParameter}
	}
	m.active = scheme
	m.persist()
	return nil
}
