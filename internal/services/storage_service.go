// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/pimstack/pim-backend/internal/apperrors"
	"github.com/pimstack/pim-backend/internal/config"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// StorageService stores product images either on the local filesystem or
// in S3, depending on STORAGE_DRIVER. The rest of the application only
// sees the returned path.
type StorageService struct {
	s3Client *s3.S3
	cfg      *config.StorageConfig
}

type UploadResult struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	if cfg.Driver != "s3" {
		return &StorageService{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{s3Client: s3.New(sess), cfg: cfg}, nil
}

// UploadProductImage validates and stores one image for a product. The
// returned path is what gets persisted on the product row.
func (s *StorageService) UploadProductImage(productID uint, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > maxImageSize {
		return nil, apperrors.Validation("image exceeds the %d MB limit", maxImageSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isAllowedExtension(ext) {
		return nil, apperrors.Validation("file type %s is not allowed", ext)
	}

	if err := validateImageSignature(file); err != nil {
		return nil, err
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read uploaded file")
	}

	key := fmt.Sprintf("products/%d/%s_%s%s",
		productID, time.Now().Format("20060102"), uuid.NewString()[:8], ext)

	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, header.Header.Get("Content-Type"))
	}
	return s.uploadToLocal(fileBytes, key, header.Header.Get("Content-Type"))
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upload image to S3")
	}

	return &UploadResult{
		Path:     key,
		URL:      s.s3URL(key),
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	fullPath := filepath.Join(s.cfg.UploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, apperrors.Wrap(err, "failed to create upload directory")
	}
	if err := os.WriteFile(fullPath, fileBytes, 0o644); err != nil {
		return nil, apperrors.Wrap(err, "failed to write image file")
	}

	return &UploadResult{
		Path:     key,
		URL:      "/uploads/" + key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

// DeleteImage removes a stored image. Missing files are not an error;
// the product row is the source of truth.
func (s *StorageService) DeleteImage(key string) error {
	if key == "" {
		return nil
	}

	if s.s3Client != nil {
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.cfg.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return apperrors.Wrap(err, "failed to delete image from S3")
		}
		return nil
	}

	fullPath := filepath.Join(s.cfg.UploadDir, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, "failed to delete image file")
	}
	return nil
}

func (s *StorageService) s3URL(key string) string {
	if s.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.AWSRegion, key)
}

func isAllowedExtension(ext string) bool {
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func validateImageSignature(file multipart.File) error {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return apperrors.Wrap(err, "failed to read uploaded file")
	}
	buffer = buffer[:n]

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return apperrors.Wrap(err, "failed to rewind uploaded file")
	}

	if !isImageSignature(buffer) {
		return apperrors.Validation("file does not look like an image")
	}
	return nil
}

func isImageSignature(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}
	// PNG
	if len(buffer) >= 4 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}
	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}
	return false
}
