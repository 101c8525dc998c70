package content

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	ErrUnknownPage  = errors.New("unknown content page")
	ErrPageNotFound = errors.New("content page not found")
	ErrInvalidDoc   = errors.New("content document must be a JSON object")
)

// Pages is the closed set of content-managed pages the site serves.
var Pages = []string{"home", "about", "programs", "gallery", "grants", "success-stories"}

var pageSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Pages))
	for _, page := range Pages {
		set[page] = struct{}{}
	}
	return set
}()

func KnownPage(page string) bool {
	_, ok := pageSet[page]
	return ok
}

// Store holds one JSON document per page as a flat file under dir. Writes
// replace the whole document atomically via a temp file and rename, so a
// concurrent reader never sees a partial document.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Get(page string) (json.RawMessage, time.Time, error) {
	if !KnownPage(page) {
		return nil, time.Time{}, ErrUnknownPage
	}

	path := s.pagePath(page)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, time.Time{}, ErrPageNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	return json.RawMessage(raw), info.ModTime().UTC(), nil
}

func (s *Store) Put(page string, doc json.RawMessage) error {
	if !KnownPage(page) {
		return ErrUnknownPage
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(doc, &object); err != nil || object == nil {
		return ErrInvalidDoc
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, page+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.pagePath(page)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) pagePath(page string) string {
	return filepath.Join(s.dir, page+".json")
}
