package form

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

// pngHeader is the 8-byte PNG signature padded with IHDR bytes so
// content sniffing identifies it.
var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func buildUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestReadImage(t *testing.T) {
	body, contentType := buildUpload(t, "image", "cover.png", pngHeader)
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)

	file, err := ReadImage(req, "image")
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("expected image/png, got %q", file.MimeType)
	}
	if file.Suffix != ".png" {
		t.Errorf("expected .png suffix, got %q", file.Suffix)
	}
	if file.Size != int64(len(pngHeader)) {
		t.Errorf("expected size %d, got %d", len(pngHeader), file.Size)
	}
}

func TestReadImageRejectsNonImage(t *testing.T) {
	body, contentType := buildUpload(t, "image", "notes.txt", []byte("plain text, not an image"))
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)

	_, err := ReadImage(req, "image")
	if !errors.Is(err, ErrUnsupportedMimeType) {
		t.Errorf("expected ErrUnsupportedMimeType, got %v", err)
	}
}

func TestReadImageMissingField(t *testing.T) {
	body, contentType := buildUpload(t, "other", "cover.png", pngHeader)
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)

	_, err := ReadImage(req, "image")
	if !errors.Is(err, ErrNoImageUploaded) {
		t.Errorf("expected ErrNoImageUploaded, got %v", err)
	}
}
