package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pfrederiksen/countdown-bot/internal/event"
)

var (
	// ErrCorrupt is returned when the events file exists but cannot be parsed
	ErrCorrupt = errors.New("events file is corrupt")

	// ErrOutOfRange is returned when a 1-based position does not name an event
	ErrOutOfRange = errors.New("position out of range")
)

// PositionError describes a rejected 1-based position
type PositionError struct {
	Position int
	Count    int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d out of range (have %d events)", e.Position, e.Count)
}

// Is lets callers match a PositionError with errors.Is(err, ErrOutOfRange)
func (e *PositionError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Store handles persistence of the event list
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by the file at path.
// A leading ~/ is expanded to the user's home directory.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("events file path is required")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &Store{path: path}, nil
}

// Path returns the location of the events file
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored events, creating an empty file first if none exists
func (s *Store) Load() ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the events file with events
func (s *Store) Save(events []event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(events)
}

// Update runs fn against the current events and saves the result.
// The store lock is held for the whole load-modify-save cycle. If fn returns
// an error nothing is written.
func (s *Store) Update(fn func([]event.Event) ([]event.Event, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return err
	}

	updated, err := fn(events)
	if err != nil {
		return err
	}

	return s.save(updated)
}

// Add appends an event and saves the list
func (s *Store) Add(evt event.Event) error {
	return s.Update(func(events []event.Event) ([]event.Event, error) {
		return append(events, evt), nil
	})
}

// RemoveAt deletes the event at the 1-based position and returns its name.
// Positions outside 1..count fail with a *PositionError and leave the file untouched.
func (s *Store) RemoveAt(position int) (string, error) {
	var removed string
	err := s.Update(func(events []event.Event) ([]event.Event, error) {
		if position < 1 || position > len(events) {
			return nil, &PositionError{Position: position, Count: len(events)}
		}
		removed = events[position-1].Name
		return append(events[:position-1], events[position:]...), nil
	})
	if err != nil {
		return "", err
	}
	return removed, nil
}

func (s *Store) load() ([]event.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading events: %w", err)
		}
		// First access: start with an empty list on disk
		if err := s.save(nil); err != nil {
			return nil, fmt.Errorf("initializing events file: %w", err)
		}
		return []event.Event{}, nil
	}

	var events []event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w: %v", ErrCorrupt, err)
	}
	if events == nil {
		// "null" is valid JSON but not a valid events file
		return nil, fmt.Errorf("parsing events: %w: expected a JSON array", ErrCorrupt)
	}

	return events, nil
}

func (s *Store) save(events []event.Event) error {
	if events == nil {
		events = []event.Event{}
	}

	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        // nolint:errcheck
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("writing events: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("replacing events file: %w", err)
	}

	return nil
}
