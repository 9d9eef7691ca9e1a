package common

import (
	"fmt"
	"strings"
)

// StorageKeyFromPath converts a public upload path (/uploads/projects/a.jpg)
// to the storage key (projects/a.jpg). Paths outside the uploads prefix or
// trying to escape it are rejected.
func StorageKeyFromPath(p string) (string, error) {
	if !strings.HasPrefix(p, UploadsURLPrefix) {
		return "", fmt.Errorf("%w: path must start with %s", ErrorValidation, UploadsURLPrefix)
	}
	key := strings.TrimPrefix(p, UploadsURLPrefix)
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: invalid upload path", ErrorValidation)
	}
	return key, nil
}

// PathFromStorageKey is the inverse of StorageKeyFromPath.
func PathFromStorageKey(key string) string {
	return UploadsURLPrefix + key
}
