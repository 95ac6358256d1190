package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/logging"
)

const presignTTL = 15 * time.Minute

// Storage is the object store behind uploads; *s3.Storage satisfies it.
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Remove(ctx context.Context, key string) error
	PresignPut(ctx context.Context, key string, ttl time.Duration) (*url.URL, error)
	URL(key string) string
}

type Service interface {
	Upload(ctx context.Context, ownerID, prefix, contentType string, data []byte) (Object, error)
	Presign(ctx context.Context, ownerID, prefix, contentType string) (Presigned, error)
	// Resolve turns a client media value into a stored URL. Plain URLs pass
	// through with an empty key; data URIs are uploaded first.
	Resolve(ctx context.Context, ownerID, prefix, value string) (u, key string, err error)
	// Remove deletes an object, logging instead of failing.
	Remove(ctx context.Context, key string)
}

type service struct {
	store Storage
	now   func() time.Time
}

// NewService accepts a nil store; uploads then fail with a validation error.
func NewService(store Storage) Service {
	return &service{store: store, now: time.Now}
}

var errNoStorage = apperr.Validation("media storage is not configured, send a URL instead")

func (s *service) Upload(ctx context.Context, ownerID, prefix, contentType string, data []byte) (Object, error) {
	if s.store == nil {
		return Object{}, errNoStorage
	}
	if len(data) == 0 {
		return Object{}, apperr.Validation("file is empty")
	}
	key := objectKey(prefix, ownerID, contentType)
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return Object{}, fmt.Errorf("put %s: %w", key, err)
	}
	return Object{Key: key, URL: s.store.URL(key), ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *service) Presign(ctx context.Context, ownerID, prefix, contentType string) (Presigned, error) {
	if s.store == nil {
		return Presigned{}, errNoStorage
	}
	key := objectKey(prefix, ownerID, contentType)
	u, err := s.store.PresignPut(ctx, key, presignTTL)
	if err != nil {
		return Presigned{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return Presigned{
		Key:       key,
		UploadURL: u.String(),
		URL:       s.store.URL(key),
		ExpiresAt: s.now().Add(presignTTL).UTC(),
	}, nil
}

func (s *service) Resolve(ctx context.Context, ownerID, prefix, value string) (string, string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "data:") {
		return value, "", nil
	}
	contentType, data, err := ParseDataURI(value)
	if err != nil {
		return "", "", err
	}
	obj, err := s.Upload(ctx, ownerID, prefix, contentType, data)
	if err != nil {
		return "", "", err
	}
	return obj.URL, obj.Key, nil
}

func (s *service) Remove(ctx context.Context, key string) {
	if s.store == nil || key == "" {
		return
	}
	if err := s.store.Remove(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("remove media object")
	}
}

// ParseDataURI decodes "data:<mime>;base64,<payload>".
func ParseDataURI(v string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(v, "data:"), ",")
	if !ok {
		return "", nil, apperr.Validation("malformed data URI")
	}
	contentType, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, apperr.Validation("data URI must be base64 encoded")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperr.Validation("data URI payload is not valid base64")
	}
	if len(data) == 0 {
		return "", nil, apperr.Validation("data URI payload is empty")
	}
	return contentType, data, nil
}

var knownExt = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

func objectKey(prefix, ownerID, contentType string) string {
	ext, ok := knownExt[contentType]
	if !ok {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	if prefix == "" {
		prefix = "uploads"
	}
	return fmt.Sprintf("%s/%s/%s%s", strings.Trim(prefix, "/"), ownerID, uuid.NewString(), ext)
}
