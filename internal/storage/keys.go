package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const documentPrefix = "documents"

// DocumentKey builds the storage key for an uploaded document. The upload time
// keeps successive uploads of the same type from colliding.
func DocumentKey(userID uuid.UUID, docType string, at time.Time, fileName string) (string, error) {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(documentPrefix, userID.String(), docType, fmt.Sprintf("%d-%s", at.UnixMilli(), name)), nil
}

// SanitizeFileName flattens path separators into underscores. A name with a
// "." or ".." path segment is rejected; dots inside a segment are kept.
func SanitizeFileName(name string) (string, error) {
	for _, segment := range strings.FieldsFunc(name, isPathSeparator) {
		if seg := strings.TrimSpace(segment); seg == "." || seg == ".." {
			return "", ErrInvalidKey
		}
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "", ErrInvalidKey
	}
	return s, nil
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}
