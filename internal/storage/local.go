package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore 本地磁盘后端，文件落在 Root 之下，URL 拼 PublicBaseURL
type LocalStore struct {
	Root          string
	PublicBaseURL string
}

func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Root: root, PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredObject, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, err
	}
	return &StoredObject{
		Key:  key,
		URL:  s.PublicBaseURL + "/" + key,
		Name: path.Base(key),
		Size: n,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	err := os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
