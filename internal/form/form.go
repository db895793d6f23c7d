// Package form reads uploaded files out of multipart forms.
package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

const magicNumberSeek = 512

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrNoImageUploaded     = errors.New("image not uploaded")
)

type UploadedFile struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// ReadImage pulls the named image field out of the request. The type
// is sniffed from the content, not the client-supplied header.
func ReadImage(r *http.Request, field string) (UploadedFile, error) {
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return UploadedFile{}, errors.Join(ErrNoImageUploaded, err)
	} else if err != nil {
		return UploadedFile{}, fmt.Errorf("getting file from form: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("reading file: %w", err)
	}

	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowedImageTypes[contentType] {
		return UploadedFile{}, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return UploadedFile{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}
