package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 2 << 20

const imageKeyPrefix = "blog-images"

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ObjectPutter is the subset of the S3 client the image store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore writes images to one S3 bucket.
type S3ImageStore struct {
	client     ObjectPutter
	bucket     string
	publicBase string
}

// NewS3ImageStore builds a store from the default AWS credential chain.
// publicBase overrides the virtual-hosted bucket URL when set, e.g. for a CDN.
func NewS3ImageStore(ctx context.Context, bucket, region, publicBase string) (*S3ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return NewS3ImageStoreWithClient(s3.NewFromConfig(awsCfg), bucket, publicBase), nil
}

func NewS3ImageStoreWithClient(client ObjectPutter, bucket, publicBase string) *S3ImageStore {
	return &S3ImageStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to store image", err)
	}
	return s.publicBase + "/" + key, nil
}

// ImageUploader applies the upload constraints before anything reaches the
// object store.
type ImageUploader struct {
	store  ImageStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewImageUploader(store ImageStore) *ImageUploader {
	return &ImageUploader{
		store:  store,
		logger: log.With().Str("service", "images").Logger(),
		now:    time.Now,
	}
}

// Upload stores data as an image and returns its public URL. data must be
// at most MaxImageSize bytes and sniff as an image type.
func (u *ImageUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.NewMissingRequiredFieldError("image")
	}
	if len(data) > MaxImageSize {
		return "", errs.NewMaxBodySizeExceededError(MaxImageSize)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", errs.NewUnsupportedMediaTypeError(contentType, "image/*")
	}

	key := ImageKey(u.now(), filename)
	url, err := u.store.Put(ctx, key, contentType, data)
	if err != nil {
		return "", err
	}
	u.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("Stored image")
	return url, nil
}

// ImageKey builds the object key blog-images/<unix-ms>-<basename>.
func ImageKey(at time.Time, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = unsafeKeyChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "image"
	}
	return path.Join(imageKeyPrefix, fmt.Sprintf("%d-%s", at.UnixMilli(), base))
}
