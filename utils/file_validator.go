package utils

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxImageSize       int64 = 5 << 20
	MaxImageBatchSize  int64 = 20 << 20
	octetStream              = "application/octet-stream"
)

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type FileValidator struct {
	allowedMime  map[string]bool
	maxSize      int64
	maxBatchSize int64
}

// NewImageValidator accepts jpeg, png, gif and webp up to 5 MiB per file and
// 20 MiB per batch.
func NewImageValidator() *FileValidator {
	allowed := make(map[string]bool, len(imageMimeTypes))
	for _, m := range imageMimeTypes {
		allowed[m] = true
	}
	return &FileValidator{
		allowedMime:  allowed,
		maxSize:      MaxImageSize,
		maxBatchSize: MaxImageBatchSize,
	}
}

func (v *FileValidator) MaxSize() int64      { return v.maxSize }
func (v *FileValidator) MaxBatchSize() int64 { return v.maxBatchSize }

func (v *FileValidator) Allowed(contentType string) bool {
	return v.allowedMime[contentType]
}

func (v *FileValidator) AllowedTypes() []string {
	return append([]string(nil), imageMimeTypes...)
}

// ResolveContentType returns the media type of an uploaded part. The declared
// type wins; without one the extension is tried, then the leading bytes of
// head are sniffed.
func (v *FileValidator) ResolveContentType(declared, filename string, head io.Reader) (string, error) {
	if ct := mediaType(declared); ct != "" && ct != octetStream {
		return ct, nil
	}
	if ct := mediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))); ct != "" {
		return ct, nil
	}
	if head == nil {
		return octetStream, nil
	}
	detected, err := mimetype.DetectReader(head)
	if err != nil {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	return mediaType(detected.String()), nil
}

func mediaType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return strings.ToLower(mt)
}
