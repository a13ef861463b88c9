package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/segyhp/rental-manager/internal/config/connections/s3"
	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/minio/minio-go/v7"
)

const PDFContentType = "application/pdf"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReceiptKey is the object key of a receipt PDF, grouped by issue year.
func ReceiptKey(receipt *domain.Receipt) string {
	return fmt.Sprintf("receipts/%d/%s.pdf", receipt.IssuedAt.Year(), unsafeKeyChars.ReplaceAllString(receipt.Number, "_"))
}

// Store keeps rendered documents in an S3 compatible bucket.
type Store struct {
	client *minio.Client
	bucket string
}

func NewStore(conn *s3.S3) *Store {
	return &Store{client: conn.Client, bucket: conn.Bucket}
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	return io.ReadAll(obj)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Ping reports whether the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}
