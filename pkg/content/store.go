package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Option configures a Store.
type Option func(*Store)

// WithDir loads content from dir on disk instead of the embedded copy.
func WithDir(dir string) Option {
	return func(s *Store) {
		s.dir = strings.TrimSpace(dir)
	}
}

// WithLogger attaches a logger used for reload diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store serves the current Site and supports atomic reloads.
type Store struct {
	mu     sync.RWMutex
	site   *Site
	dir    string
	logger *zap.Logger
}

// NewStore loads the initial content. An empty directory option uses the
// embedded content.
func NewStore(opts ...Option) (*Store, error) {
	store := &Store{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Site returns the current content snapshot. Callers must not mutate it.
func (s *Store) Site() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Page looks up a page in the current snapshot.
func (s *Store) Page(name string) (Page, bool) {
	return s.Site().Page(name)
}

// Dir reports the on-disk content directory, or "" for embedded content.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the watched content file, or "" for embedded content.
func (s *Store) Path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, DefaultFile)
}

// Reload re-reads the content. On failure the previous snapshot stays live.
func (s *Store) Reload() error {
	site, err := LoadFS(s.filesystem(), DefaultFile)
	if err != nil {
		s.logger.Warn("content reload failed", zap.String("dir", s.dir), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.site = site
	s.mu.Unlock()

	s.logger.Debug("content loaded", zap.String("dir", s.dir), zap.Int("pages", len(site.Pages)))
	return nil
}

func (s *Store) filesystem() fs.FS {
	if s.dir == "" {
		return EmbeddedFS()
	}
	return os.DirFS(s.dir)
}
