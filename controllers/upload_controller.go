package controllers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/warbler/web-go/config"
	"github.com/warbler/web-go/utils"
)

const (
	maxImageSize  = 5 * 1024 * 1024 // 5MB
	uploadTimeout = 30 * time.Second

	ProfileImageKind = "avatar"
	HeaderImageKind  = "header"
)

var (
	ErrInvalidImageType = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds 5MB")
)

// ImageStore saves uploaded images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3ImageStore writes to an S3-compatible bucket such as Cloudflare R2.
type S3ImageStore struct {
	Client *s3.Client
	Config *config.StorageConfig
}

func NewS3ImageStore(cfg *config.StorageConfig) *S3ImageStore {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region:       cfg.Region,
		UsePathStyle: true,
	})

	return &S3ImageStore{
		Client: client,
		Config: cfg,
	}
}

func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Config.BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s", key)
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.Config.PublicURL, "/"), key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Config.BucketName),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "delete object %s", key)
}

// UploadController handles the optional image files on the profile form.
// A nil Store disables uploads.
type UploadController struct {
	Store ImageStore
}

func NewUploadController(store ImageStore) *UploadController {
	return &UploadController{Store: store}
}

func (uc *UploadController) Enabled() bool {
	return uc != nil && uc.Store != nil
}

// StoredImage is an uploaded file, kept so it can be removed again when
// the surrounding update fails.
type StoredImage struct {
	Key string
	URL string
}

// SaveFormImage stores the file posted under field, if any. It returns
// nil when uploads are disabled or no file was sent. A body that cannot
// be parsed is an error.
func (uc *UploadController) SaveFormImage(c *gin.Context, userID uint, field, kind string) (*StoredImage, error) {
	if !uc.Enabled() {
		return nil, nil
	}

	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", field)
	}
	if header.Size == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return nil, ErrInvalidImageType
	}
	if header.Size > maxImageSize {
		return nil, ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open uploaded file")
	}
	defer file.Close()

	key := generateImageKey(userID, kind, header)

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	url, err := uc.Store.Put(ctx, key, contentType, file, header.Size)
	if err != nil {
		return nil, err
	}

	utils.LogSuccessWithUser(userID, fmt.Sprintf("Stored %s image %s", kind, key))
	return &StoredImage{Key: key, URL: url}, nil
}

// Discard removes images stored for an update that did not go through.
func (uc *UploadController) Discard(ctx context.Context, images ...*StoredImage) {
	for _, img := range images {
		if img == nil {
			continue
		}
		if err := uc.Store.Delete(ctx, img.Key); err != nil {
			utils.LogError(err, "Failed to remove orphaned image")
		}
	}
}

func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif",
	}
	for _, validType := range validTypes {
		if contentType == validType {
			return true
		}
	}
	return false
}

func generateImageKey(userID uint, kind string, header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	return fmt.Sprintf("users/%d/%s/%d_%s%s", userID, kind, time.Now().Unix(), uuid.New().String(), ext)
}
