package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// StoredObject 上传结果，落库用
type StoredObject struct {
	Key  string
	URL  string
	Name string
	Size int64
}

// Store 文件存储后端（local 磁盘 / s3 对象存储）
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey 生成稳定的对象 key：<dir>/<uuid><ext>
func ObjectKey(dir, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(dir, "/"), uuid.NewString(), ext)
}
