// Package local implements the S3 surface used by the report archive on
// top of a plain directory, for running against a local game server
// without any cloud credentials.
package local

import (
	"bytes"
	"context"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"io"
	"os"
	"path/filepath"
)

type S3Client struct {
	basePath string
}

func NewS3Client(basePath string) *S3Client {
	return &S3Client{basePath}
}

func (s3c *S3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f, err := os.Open(s3c.path(*params.Bucket, *params.Key))
	if err != nil {
		return nil, err
	}

	return &s3.GetObjectOutput{Body: f}, nil
}

func (s3c *S3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	var b bytes.Buffer
	if _, err := io.Copy(&b, params.Body); err != nil {
		return nil, err
	}

	fpath := s3c.path(*params.Bucket, *params.Key)
	if err := os.MkdirAll(filepath.Dir(fpath), 0750); err != nil {
		return nil, err
	}

	if err := os.WriteFile(fpath, b.Bytes(), 0644); err != nil {
		return nil, err
	}

	return &s3.PutObjectOutput{}, nil
}

func (s3c *S3Client) path(bucket, key string) string {
	return filepath.Join(s3c.basePath, bucket, filepath.FromSlash(key))
}
