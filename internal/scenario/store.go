package scenario

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var builtin []byte

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Store is a read-only, ordered scenario collection. A scenario's identity
// is its index.
type Store struct {
	scenarios []Scenario
}

type document struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// New validates scenarios and returns a store holding private copies.
func New(scenarios []Scenario) (*Store, error) {
	if err := Validate(scenarios); err != nil {
		return nil, err
	}
	s := &Store{scenarios: make([]Scenario, len(scenarios))}
	for i, sc := range scenarios {
		s.scenarios[i] = sc.Clone()
	}
	return s, nil
}

// Default returns the built-in scenario set. It is parsed once.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = Load(bytes.NewReader(builtin))
		if defaultErr != nil {
			defaultErr = fmt.Errorf("builtin scenarios: %w", defaultErr)
		}
	})
	return defaultStore, defaultErr
}

// Load parses a YAML scenario document.
func Load(r io.Reader) (*Store, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	return New(doc.Scenarios)
}

// LoadFile parses the YAML scenario document at path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Count returns the number of scenarios.
func (s *Store) Count() int {
	return len(s.scenarios)
}

// Get returns a copy of the scenario at index.
func (s *Store) Get(index int) (Scenario, error) {
	if index < 0 || index >= len(s.scenarios) {
		return Scenario{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(s.scenarios))
	}
	return s.scenarios[index].Clone(), nil
}

// All returns copies of every scenario in order.
func (s *Store) All() []Scenario {
	out := make([]Scenario, len(s.scenarios))
	for i, sc := range s.scenarios {
		out[i] = sc.Clone()
	}
	return out
}

// Names returns the scenario names in order.
func (s *Store) Names() []string {
	names := make([]string, len(s.scenarios))
	for i, sc := range s.scenarios {
		names[i] = sc.Name
	}
	return names
}

// Lookup resolves ref as an index or a case-insensitive name.
func (s *Store) Lookup(ref string) (int, Scenario, error) {
	ref = strings.TrimSpace(ref)
	if idx, err := strconv.Atoi(ref); err == nil {
		sc, err := s.Get(idx)
		if err != nil {
			return -1, Scenario{}, err
		}
		return idx, sc, nil
	}
	for i, sc := range s.scenarios {
		if strings.EqualFold(sc.Name, ref) {
			return i, sc.Clone(), nil
		}
	}
	return -1, Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// Validate checks the store invariants over a scenario set.
func Validate(scenarios []Scenario) error {
	seen := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		if strings.TrimSpace(sc.Name) == "" {
			return &ValidationError{Scenario: sc.Name, Step: -1, Field: "name", Reason: "empty"}
		}
		key := strings.ToLower(sc.Name)
		if seen[key] {
			return &ValidationError{Scenario: sc.Name, Step: -1, Field: "name", Reason: "duplicate"}
		}
		seen[key] = true

		if len(sc.Steps) == 0 {
			return &ValidationError{Scenario: sc.Name, Step: -1, Field: "steps", Reason: "no steps"}
		}
		for i, st := range sc.Steps {
			if st.Highlight != "" && !st.Highlight.Valid() {
				return &ValidationError{Scenario: sc.Name, Step: i, Field: "highlight", Reason: fmt.Sprintf("unknown region %q", st.Highlight)}
			}
			if i == 0 {
				continue
			}
			prev := sc.Steps[i-1]
			if !hasPrefix(st.Output, prev.Output) {
				return &ValidationError{Scenario: sc.Name, Step: i, Field: "output", Reason: "does not extend previous output"}
			}
			if !hasSuffix(prev.Script, st.Script) {
				return &ValidationError{Scenario: sc.Name, Step: i, Field: "script", Reason: "is not a suffix of previous script"}
			}
		}
	}
	return nil
}

func hasPrefix(lines, prefix []string) bool {
	if len(prefix) > len(lines) {
		return false
	}
	for i := range prefix {
		if lines[i] != prefix[i] {
			return false
		}
	}
	return true
}

func hasSuffix(lines, suffix []string) bool {
	if len(suffix) > len(lines) {
		return false
	}
	off := len(lines) - len(suffix)
	for i := range suffix {
		if lines[off+i] != suffix[i] {
			return false
		}
	}
	return true
}
