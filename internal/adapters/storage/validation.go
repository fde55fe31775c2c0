package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// ErrInvalidFile is wrapped by every validation failure.
var ErrInvalidFile = errors.New("invalid file")

// AllowedContentTypes lists what the contact form may attach: images and PDF.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/heic":      true,
	"image/avif":      true,
	"application/pdf": true,
}

const maxFileNameRunes = 80

// NormalizeContentType strips parameters and lowercases a MIME type.
func NormalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}

// ValidateContentType checks if the content type is allowed.
func (s *MinIOService) ValidateContentType(contentType string) error {
	if !AllowedContentTypes[NormalizeContentType(contentType)] {
		return fmt.Errorf("%w: content type %q is not allowed", ErrInvalidFile, contentType)
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("%w: file size must be greater than 0", ErrInvalidFile)
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("%w: file size %d bytes exceeds maximum allowed size of %d bytes", ErrInvalidFile, sizeBytes, s.maxFileSize)
	}
	return nil
}

// SafeFileName reduces a client-supplied name to a single path segment of
// letters, digits, dot, dash and underscore.
func SafeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}
	ext := strings.ToLower(path.Ext(name))
	base := strings.TrimSuffix(name, path.Ext(name))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '.':
			b.WriteRune('-')
		}
	}
	cleaned := strings.Trim(b.String(), "-")
	if cleaned == "" {
		cleaned = "arquivo"
	}
	if runes := []rune(cleaned); len(runes) > maxFileNameRunes {
		cleaned = string(runes[:maxFileNameRunes])
	}

	var extB strings.Builder
	for _, r := range ext {
		if r == '.' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			extB.WriteRune(r)
		}
	}
	return cleaned + extB.String()
}
