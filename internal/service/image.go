package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/mealweek/backend/config"
)

// maxTemplateImageBytes caps catalog image uploads at 5 MiB.
const maxTemplateImageBytes = 5 << 20

// ImageService stores template catalog images in S3.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadTemplateImage uploads image data to S3 under a unique key and
// returns the public URL.
func (s *ImageService) UploadTemplateImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload: %w", ErrValidation)
	}
	if len(data) > maxTemplateImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes: %w", maxTemplateImageBytes, ErrValidation)
	}

	ext := extensionFor(contentType)
	if ext == "" {
		return "", fmt.Errorf("unsupported image content type %q: %w", contentType, ErrValidation)
	}

	fileName := fmt.Sprintf("template-images/%s%s", uuid.New().String(), ext)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3 failed: %v: %w", err, ErrTransient)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] uploaded template image %s", publicURL)
	return publicURL, nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
