package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// CurrentVersion is the snapshot file format version.
const CurrentVersion = 1

// ResourceState holds the recorded attributes of one applied resource:
// the declared arguments merged with whatever the provider reported back
// (generated identifiers, ARNs, domain names).
type ResourceState struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
}

// Snapshot is the explicit desired-vs-actual state carrier. It is read
// once at the start of an apply, written incrementally per successfully
// applied resource, and never mutated implicitly. Writes are serialized;
// each resource identity is written exactly once per apply.
type Snapshot struct {
	mu sync.Mutex

	Version   int                       `json:"version"`
	Resources map[string]*ResourceState `json:"resources"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:   CurrentVersion,
		Resources: make(map[string]*ResourceState),
	}
}

// Load reads a snapshot from disk. A missing file is not an error: it
// yields an empty snapshot, meaning every resource will be created.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file %q: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding state file %q: %w", path, err)
	}
	if snap.Resources == nil {
		snap.Resources = make(map[string]*ResourceState)
	}
	return &snap, nil
}

// Save writes the snapshot to disk atomically (temp file + rename), so a
// crash mid-write never truncates the previous state.
func (s *Snapshot) Save(path string) error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stackform-state-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Resource returns the recorded state for a node ID, if any.
func (s *Snapshot) Resource(id string) (*ResourceState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.Resources[id]
	return rs, ok
}

// Put records the state of an applied resource.
func (s *Snapshot) Put(id string, rs *ResourceState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Resources[id] = rs
}

// Len returns the number of recorded resources.
func (s *Snapshot) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Resources)
}
