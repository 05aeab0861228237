package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store 对象存储后端（S3 协议，minio 客户端）。
// 客户端建一次复用，进程内无其它共享可变状态。
type S3Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

type S3Opts struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

func NewS3Store(o S3Opts) (*S3Store, error) {
	cli, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
		Region: o.Region,
	})
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(o.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if o.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + o.Endpoint + "/" + o.Bucket
	}
	return &S3Store{client: cli, bucket: o.Bucket, publicBaseURL: base}, nil
}

func (s *S3Store) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredObject, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	return &StoredObject{
		Key:  key,
		URL:  s.publicBaseURL + "/" + key,
		Name: path.Base(key),
		Size: info.Size,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
