// Package file persists users as a single pretty-printed JSON file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/port"
)

const DefaultPath = "database.json"

type UserStore struct {
	path string
	perm os.FileMode
}

type Option func(*UserStore)

// WithPerm sets the mode used when the file is created.
func WithPerm(perm os.FileMode) Option {
	return func(s *UserStore) { s.perm = perm }
}

func NewUserStore(path string, opts ...Option) *UserStore {
	if path == "" {
		path = DefaultPath
	}
	s := &UserStore{path: path, perm: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ port.UserStore = (*UserStore)(nil)

func (s *UserStore) Path() string { return s.path }

// Load returns an empty list when the file does not exist yet.
func (s *UserStore) Load(_ context.Context) (domain.Users, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Users{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return Decode(b)
}

func (s *UserStore) Save(_ context.Context, users domain.Users) error {
	b, err := Encode(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	// Write a sibling temp file, then rename it over the target.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(b)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	return nil
}

// Encode renders users the way they are stored on disk: a 2-space indented
// array with <, > and & left unescaped.
func Encode(users domain.Users) ([]byte, error) {
	if users == nil {
		users = domain.Users{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses a stored document. Empty input and "null" decode to an empty list.
func Decode(b []byte) (domain.Users, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return domain.Users{}, nil
	}
	var users domain.Users
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = domain.Users{}
	}
	return users, nil
}
