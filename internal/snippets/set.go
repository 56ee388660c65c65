package snippets

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PicturePath names the fragment that carries the input asset directory so
// templates can reference images relative to it.
const PicturePath = "PAPETERIEPICPATH"

// TransformFunc converts one fragment text into another.
type TransformFunc func(string) (string, error)

// Set is an immutable collection of named fragments.
type Set struct {
	entries map[string]string
}

// Canonical returns the form every fragment name is stored under.
func Canonical(name string) string {
	return cases.Upper(language.Und).String(name)
}

// New builds a set from a name to text mapping. Names are canonicalized to
// upper case; the mapping must be non-empty and no canonical name may be a
// substring of another.
func New(mapping map[string]string) (*Set, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: no snippets given", ErrInvariantViolation)
	}
	entries := make(map[string]string, len(mapping))
	for name, text := range mapping {
		entries[Canonical(name)] = text
	}
	if err := checkDisjointNames(entries); err != nil {
		return nil, err
	}
	return &Set{entries: entries}, nil
}

func checkDisjointNames(entries map[string]string) error {
	names := slices.Sorted(maps.Keys(entries))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty snippet name", ErrInvariantViolation)
		}
		for _, other := range names[i+1:] {
			if strings.Contains(name, other) || strings.Contains(other, name) {
				return fmt.Errorf("%w: snippet names %s and %s are substrings of each other", ErrInvariantViolation, name, other)
			}
		}
	}
	return nil
}

// Len returns the number of fragments.
func (s *Set) Len() int {
	return len(s.entries)
}

// Names returns the fragment names in lexicographic order.
func (s *Set) Names() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Get returns the text stored under name.
func (s *Set) Get(name string) (string, bool) {
	text, ok := s.entries[Canonical(name)]
	return text, ok
}

// Map returns a copy of the underlying mapping.
func (s *Set) Map() map[string]string {
	return maps.Clone(s.entries)
}

// CheckCompleteness fails when any of names is absent from the set.
func (s *Set) CheckCompleteness(names []string) error {
	for _, name := range names {
		if _, ok := s.entries[Canonical(name)]; !ok {
			return fmt.Errorf("%w: required snippet %s is not in %v", ErrMissingFragment, name, s.Names())
		}
	}
	return nil
}

// Subset returns a set holding exactly the requested names.
func (s *Set) Subset(names []string) (*Set, error) {
	picked := make(map[string]string, len(names))
	for _, name := range names {
		text, ok := s.entries[Canonical(name)]
		if !ok {
			return nil, fmt.Errorf("%w: cannot select %s", ErrMissingFragment, name)
		}
		picked[name] = text
	}
	return New(picked)
}

// Renamed relabels every fragment through nameMap, which must have an entry
// for each name in the set.
func (s *Set) Renamed(nameMap map[string]string) (*Set, error) {
	lookup := make(map[string]string, len(nameMap))
	for from, to := range nameMap {
		lookup[Canonical(from)] = to
	}
	renamed := make(map[string]string, len(s.entries))
	for name, text := range s.entries {
		target, ok := lookup[name]
		if !ok {
			return nil, fmt.Errorf("%w: no new name for %s", ErrMissingFragment, name)
		}
		renamed[Canonical(target)] = text
	}
	if len(renamed) != len(s.entries) {
		return nil, fmt.Errorf("%w: rename maps several snippets onto one name", ErrInvariantViolation)
	}
	return New(renamed)
}

// Transform applies fn to every fragment text. A nil fn is the identity. The
// first error returned by fn aborts the transform.
func (s *Set) Transform(fn TransformFunc) (*Set, error) {
	out := make(map[string]string, len(s.entries))
	for _, name := range s.Names() {
		text := s.entries[name]
		if fn != nil {
			converted, err := fn(text)
			if err != nil {
				return nil, fmt.Errorf("transform snippet %s: %w", name, err)
			}
			text = converted
		}
		out[name] = text
	}
	return New(out)
}

// MergeWith returns the receiver's fragments updated by other's. With
// checkOverlap set, sets sharing any name are rejected instead.
func (s *Set) MergeWith(other *Set, checkOverlap bool) (*Set, error) {
	if checkOverlap {
		var shared []string
		for name := range other.entries {
			if _, ok := s.entries[name]; ok {
				shared = append(shared, name)
			}
		}
		if len(shared) > 0 {
			slices.Sort(shared)
			return nil, fmt.Errorf("%w: %s", ErrOverlap, strings.Join(shared, ", "))
		}
	}
	merged := maps.Clone(s.entries)
	maps.Copy(merged, other.entries)
	return New(merged)
}

// Add returns a set with name set to text, replacing any existing entry.
func (s *Set) Add(name, text string) (*Set, error) {
	entries := maps.Clone(s.entries)
	entries[Canonical(name)] = text
	return New(entries)
}

// String renders the set as alternating name and text lines, ordered by name.
func (s *Set) String() string {
	var b strings.Builder
	for _, name := range s.Names() {
		b.WriteString(name)
		b.WriteByte('\n')
		b.WriteString(s.entries[name])
		b.WriteByte('\n')
	}
	return b.String()
}
