package contract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Upload limits.
const (
	MaxUploadFiles     = 50
	MaxUploadFileBytes = 5 * 1024 * 1024
	UploadExtension    = ".gpx"
)

const (
	maxFileNameLength = 50
	keptNameLength    = 40
	unknownFileName   = "unknown_file"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// UploadFile describes one file offered for ingestion.
type UploadFile struct {
	Name string
	Size int64
}

// ValidateUpload checks an upload batch and rejects it on the first violation.
func ValidateUpload(files []UploadFile) error {
	if len(files) == 0 {
		return fmt.Errorf("no files provided")
	}
	if len(files) > MaxUploadFiles {
		return fmt.Errorf("too many files: %d (maximum is %d)", len(files), MaxUploadFiles)
	}
	for _, f := range files {
		if f.Size > MaxUploadFileBytes {
			return fmt.Errorf("file %s is too large: %d bytes (maximum is %d)", f.Name, f.Size, MaxUploadFileBytes)
		}
		if !strings.EqualFold(filepath.Ext(f.Name), UploadExtension) {
			return fmt.Errorf("file %s has an unsupported extension (expected %s)", f.Name, UploadExtension)
		}
	}
	return nil
}

// SanitizeFileName reduces a user-supplied file name to a safe ride label.
func SanitizeFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return unknownFileName
	}
	clean := unsafeFileNameChars.ReplaceAllString(filepath.Base(name), "_")
	if len(clean) <= maxFileNameLength {
		return clean
	}
	return clean[:keptNameLength] + "..." + filepath.Ext(clean)
}
