package blobstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/medmod/internal/filex"
)

// FSStore keeps blobs under a local directory. URL returns a path below
// URLPrefix, which the HTTP router serves from Root.
type FSStore struct {
	root      string
	urlPrefix string
}

// DefaultURLPrefix is where the HTTP router mounts the local blob directory.
const DefaultURLPrefix = "/blobs/"

func NewFSStore(dir string) (*FSStore, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FSStore{root: root, urlPrefix: DefaultURLPrefix}, nil
}

// Root is the absolute directory holding the blobs.
func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	p, err := filex.Join(s.root, key)
	if err != nil {
		return err
	}
	_, err = filex.WriteFile(p, r)
	return err
}

// Delete removes the blob; a missing blob is not an error.
func (s *FSStore) Delete(_ context.Context, key string) error {
	p, err := filex.Join(s.root, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FSStore) URL(_ context.Context, key string) (string, error) {
	p, err := filex.Join(s.root, key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return s.urlPrefix + key, nil
}
