// Package save keeps the best score between sessions.
package save

import (
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordObject   = "records"
	recordProperty = "best"
)

// Record is the persisted payload.
type Record struct {
	Best      int       `yaml:"best"`
	Runs      int       `yaml:"runs"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Store tracks the best score. With a nil manager it only keeps the score
// in memory.
type Store struct {
	mu      sync.Mutex
	manager *gdata.Manager
	record  Record
}

// Open returns a gdata manager for the application's data directory.
func Open(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open save data %s: %w", appName, err)
	}
	return m, nil
}

// New loads the saved record, if any. A record that cannot be read is
// reported but the store is still usable and starts from zero.
func New(manager *gdata.Manager) (*Store, error) {
	s := &Store{manager: manager}
	return s, s.load()
}

func (s *Store) load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(recordObject, recordProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	s.record = rec
	return nil
}

// Best returns the highest score submitted so far.
func (s *Store) Best() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Best
}

// Record returns a copy of the stored record.
func (s *Store) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// Submit counts a finished run and reports whether score beat the best.
func (s *Store) Submit(score int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Runs++
	improved := score > s.record.Best
	if improved {
		s.record.Best = score
	}
	s.record.UpdatedAt = time.Now().UTC()

	if s.manager == nil {
		return improved, nil
	}
	data, err := yaml.Marshal(s.record)
	if err != nil {
		return improved, fmt.Errorf("marshal record: %w", err)
	}
	if err := s.manager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return improved, fmt.Errorf("save record: %w", err)
	}
	return improved, nil
}
