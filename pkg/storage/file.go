package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// DefaultFileName is the state file name inside the config directory.
const DefaultFileName = "state.json"

// FileStore stores the state as a JSON file. Writes go through a temporary
// file and a rename so readers never see a partial file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	logger *log.Logger

	// last holds the bytes most recently written by Save, so Watch can
	// ignore our own writes.
	last []byte
}

// NewFileStore creates a file store at path.
// If path is empty, defaults to ~/.config/sitroom/state.json.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "get home dir")
		}
		path = filepath.Join(home, ".config", "sitroom", DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create state dir")
	}
	o := buildOptions(opts)
	return &FileStore{path: path, logger: o.logger}, nil
}

func (s *FileStore) Load(ctx context.Context) (*dashboard.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read state file")
	}
	return Unmarshal(data, s.logger)
}

func (s *FileStore) Save(ctx context.Context, st dashboard.State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create temp state file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeStorage, err, "write state file")
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeStorage, err, "write state file")
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write state file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "replace state file")
	}
	s.last = data
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeStorage, err, "remove state file")
	}
	s.last = nil
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// watchDebounce coalesces bursts of events from editors that write a file
// in several steps.
const watchDebounce = 200 * time.Millisecond

// Watch calls onChange with the newly loaded state whenever another process
// modifies the state file. Changes written by this store's Save are
// ignored. Watch returns once the watcher is running; it stops when ctx is
// done.
func (s *FileStore) Watch(ctx context.Context, onChange func(*dashboard.State)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create file watcher")
	}
	// Watch the directory: Save replaces the file, which would drop a
	// watch on the file itself.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return errs.Wrap(errs.ErrCodeStorage, err, "watch state dir")
	}

	go s.watchLoop(ctx, w, onChange)
	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, w *fsnotify.Watcher, onChange func(*dashboard.State)) {
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("state file watcher error", "error", err)
		case <-fire:
			fire = nil
			s.reload(ctx, onChange)
		}
	}
}

func (s *FileStore) reload(ctx context.Context, onChange func(*dashboard.State)) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	own := err == nil && s.last != nil && bytes.Equal(data, s.last)
	s.mu.RUnlock()

	if own {
		return
	}
	if err != nil && !os.IsNotExist(err) {
		s.logger.Warn("reload state file", "error", err)
		return
	}
	var st *dashboard.State
	if err == nil {
		if st, err = Unmarshal(data, s.logger); err != nil {
			s.logger.Warn("reload state file", "error", err)
			return
		}
	}
	s.logger.Debug("state file changed", "path", s.path)
	onChange(st)
}

var _ Store = (*FileStore)(nil)
