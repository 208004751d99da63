// utils/attachment.go
package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// AllowedFile checks the extension against the configured allow-list. A name
// with no extension at all is rejected too.
func AllowedFile(filename string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// AttachmentKey builds the object key for a submission attachment:
// day<N>/<user-id>/<uuid>-<slugged-name><ext>. The slug strips anything that
// would need escaping in a URL or an object key.
func AttachmentKey(day int, userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := slug.Make(base)
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("day%d/%s/%s-%s%s", day, userID, uuid.NewString(), name, ext)
}

// StoreAttachment persists an upload and returns the URL to record on the
// submission. R2 when configured, local uploads/ otherwise (served statically).
func StoreAttachment(fileHeader *multipart.FileHeader, key string) (string, error) {
	if R2Enabled() {
		return UploadFileToR2(fileHeader, key)
	}
	destPath := GetUploadPath(key)
	if err := SaveFile(fileHeader, destPath); err != nil {
		return "", fmt.Errorf("failed to save file locally: %w", err)
	}
	return "/" + filepath.ToSlash(destPath), nil
}
