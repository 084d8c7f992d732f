package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kevinmichaelchen/googl-hunt/internal/logging"
	"github.com/kevinmichaelchen/googl-hunt/internal/request"
)

const (
	CacheFile        = "response.json"
	CodeSearchFile   = "code_search_response_file.json"
	forkFilePrefix   = "fork_response_"
	responseFileMode = 0o644
)

var ErrPersist = errors.New("persisting response")

// ForkResponseFile names the file holding the raw fork response for repo.
func ForkResponseFile(repo string) string {
	return forkFilePrefix + repo + ".json"
}

// Store writes raw response bodies into a single directory. Files are
// overwritten in place; concurrent writers race and the last one wins.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Write replaces the contents of name with the response body.
func (s *Store) Write(ctx context.Context, name string, resp *request.Response) error {
	return s.WriteBytes(ctx, name, resp.Body)
}

func (s *Store) WriteBytes(ctx context.Context, name string, data []byte) error {
	if err := os.WriteFile(s.Path(name), data, responseFileMode); err != nil {
		logging.FromContext(ctx).Error("error writing file", "file", name, "err", err)
		return fmt.Errorf("%w: %s: %v", ErrPersist, name, err)
	}
	logging.FromContext(ctx).Debug("wrote response", "file", name, "bytes", len(data))
	return nil
}

func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		logging.FromContext(ctx).Error("error reading file", "file", name, "err", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrPersist, name, err)
	}
	return data, nil
}
