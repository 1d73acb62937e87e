package qualification

import (
	"context"
	"time"
)

// AttachmentStorage issues presigned URLs for submission attachments.
// An expiresIn of zero uses the backend default.
type AttachmentStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}
