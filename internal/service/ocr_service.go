package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	// Register the page image formats accepted at upload time.
	_ "image/jpeg"
	_ "image/png"

	"reading-companion/internal/domain"
	apperrors "reading-companion/pkg/errors"

	"github.com/otiai10/gosseract/v2"
)

const (
	minImageDimension = 100
	maxImageDimension = 10000
)

// OCRService extracts English text from page images with Tesseract.
type OCRService struct {
	logger      domain.Logger
	maxFileSize int64
}

// NewOCRService creates a new OCR service.
func NewOCRService(logger domain.Logger, maxFileSize int64) *OCRService {
	return &OCRService{
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// Validate checks that the bytes are a JPG or PNG page image within the
// accepted size and dimension bounds. It runs before any session mutation.
func (s *OCRService) Validate(imageBytes []byte) error {
	if int64(len(imageBytes)) > s.maxFileSize {
		return apperrors.NewValidationError(fmt.Sprintf("Image too large. Maximum size is %dMB.", s.maxFileSize/(1024*1024)))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return apperrors.NewValidationError("Invalid image file", err.Error())
	}
	if format != "jpeg" && format != "png" {
		return apperrors.NewValidationError(fmt.Sprintf("Unsupported format: %s. Use JPG or PNG.", format))
	}
	if cfg.Width < minImageDimension || cfg.Height < minImageDimension {
		return apperrors.NewValidationError(fmt.Sprintf("Image too small. Minimum %dx%d pixels.", minImageDimension, minImageDimension))
	}
	if cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return apperrors.NewValidationError(fmt.Sprintf("Image too large. Maximum %dx%d pixels.", maxImageDimension, maxImageDimension))
	}
	return nil
}

// ExtractText runs Tesseract over the image and returns the extracted text.
// The image is processed entirely in memory.
func (s *OCRService) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return "", fmt.Errorf("failed to configure ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("failed to load image for ocr: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr extraction failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
