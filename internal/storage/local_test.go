package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "http://localhost:8080/uploads")
	require.NoError(t, err)

	body := []byte("hello world")
	obj, err := s.Save(context.Background(), "providers/abc/file.txt", bytes.NewReader(body), int64(len(body)), "text/plain")
	require.NoError(t, err)
	require.Equal(t, "providers/abc/file.txt", obj.Key)
	require.Equal(t, "http://localhost:8080/uploads/providers/abc/file.txt", obj.URL)
	require.EqualValues(t, len(body), obj.Size)

	onDisk, err := os.ReadFile(filepath.Join(root, "providers/abc/file.txt"))
	require.NoError(t, err)
	require.Equal(t, body, onDisk)

	require.NoError(t, s.Delete(context.Background(), obj.Key))
	_, err = os.Stat(filepath.Join(root, "providers/abc/file.txt"))
	require.True(t, os.IsNotExist(err))

	// 重复删除不报错
	require.NoError(t, s.Delete(context.Background(), obj.Key))
}

func TestObjectKeyKeepsExtension(t *testing.T) {
	key := ObjectKey("providers/abc", "Scan Of ID.PDF")
	require.True(t, strings.HasPrefix(key, "providers/abc/"))
	require.True(t, strings.HasSuffix(key, ".pdf"))
	require.NotContains(t, key, " ")
}
