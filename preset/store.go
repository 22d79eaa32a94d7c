package preset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gruntwork-io/go-commons/files"
	"github.com/pkg/errors"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrNotFound  = errors.New("preset not found")
	ErrEmptyName = errors.New("preset name is empty")
	ErrReadOnly  = errors.New("factory presets cannot be deleted")
)

// Store keeps named presets in a single JSON file. Factory presets are always available; saving a preset under a
// factory name shadows it.
type Store struct {
	path    string
	factory map[string]rhythm.Preset

	mu sync.Mutex
}

// NewStore creates a store backed by path. The file is created on the first Save.
func NewStore(path string, factory map[string]rhythm.Preset) *Store {
	if factory == nil {
		factory = map[string]rhythm.Preset{}
	}
	return &Store{path: path, factory: factory}
}

// Save stores p under name, replacing any preset with the same name.
func (s *Store) Save(name string, p rhythm.Preset) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.read()
	if err != nil {
		return err
	}
	saved[name] = p
	if err := s.write(saved); err != nil {
		return err
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{"preset": name, "bpm": p.BPM}).Info("Preset saved")
	return nil
}

// Load returns the preset stored under name.
func (s *Store) Load(name string) (rhythm.Preset, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.read()
	if err != nil {
		return rhythm.Preset{}, err
	}
	if p, ok := saved[name]; ok {
		return p, nil
	}
	if p, ok := s.factory[name]; ok {
		return p, nil
	}
	return rhythm.Preset{}, errors.Wrapf(ErrNotFound, "loading %q", name)
}

// Delete removes a saved preset.
func (s *Store) Delete(name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := saved[name]; !ok {
		if _, builtin := s.factory[name]; builtin {
			return errors.Wrapf(ErrReadOnly, "deleting %q", name)
		}
		return errors.Wrapf(ErrNotFound, "deleting %q", name)
	}

	delete(saved, name)
	return s.write(saved)
}

// List returns the names of every available preset in ascending order.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.read()
	if err != nil {
		return nil, err
	}

	all := maps.Clone(s.factory)
	maps.Copy(all, saved)
	names := maps.Keys(all)
	slices.Sort(names)
	return names, nil
}

func (s *Store) read() (map[string]rhythm.Preset, error) {
	out := map[string]rhythm.Preset{}
	if !files.FileExists(s.path) {
		return out, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading presets from %s", s.path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrapf(err, "parsing presets in %s", s.path)
	}
	return out, nil
}

// write replaces the whole file through a rename.
func (s *Store) write(presets map[string]rhythm.Preset) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating preset directory")
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding presets")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing preset file")
}
