package service

import (
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"strings"
	"testing"

	apperrors "reading-companion/pkg/errors"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestOCRValidate_AcceptsPNG(t *testing.T) {
	svc := NewOCRService(&testLogger{}, 10*1024*1024)

	if err := svc.Validate(encodePNG(t, 200, 300)); err != nil {
		t.Fatalf("expected valid image, got %v", err)
	}
}

func TestOCRValidate_RejectsNonImage(t *testing.T) {
	svc := NewOCRService(&testLogger{}, 10*1024*1024)

	err := svc.Validate([]byte("not an image at all"))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOCRValidate_RejectsUnsupportedFormat(t *testing.T) {
	svc := NewOCRService(&testLogger{}, 10*1024*1024)

	var buf bytes.Buffer
	if err := gif.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 200)), nil); err != nil {
		t.Fatalf("failed to encode test gif: %v", err)
	}
	err := svc.Validate(buf.Bytes())
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(apperrors.GetMessage(err), "Unsupported format") {
		t.Fatalf("unexpected message: %s", apperrors.GetMessage(err))
	}
}

func TestOCRValidate_RejectsTinyImage(t *testing.T) {
	svc := NewOCRService(&testLogger{}, 10*1024*1024)

	err := svc.Validate(encodePNG(t, 50, 50))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(apperrors.GetMessage(err), "too small") {
		t.Fatalf("unexpected message: %s", apperrors.GetMessage(err))
	}
}

func TestOCRValidate_RejectsOversizedFile(t *testing.T) {
	svc := NewOCRService(&testLogger{}, 16)

	err := svc.Validate(encodePNG(t, 200, 200))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(apperrors.GetMessage(err), "too large") {
		t.Fatalf("unexpected message: %s", apperrors.GetMessage(err))
	}
}
