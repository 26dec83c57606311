package util

import (
	"path/filepath"
	"strings"
)

// ValidExtension reports whether the filename's extension is in the allowed
// list. Entries in allowed carry no leading dot.
func ValidExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// FileSizeMB returns the size of the payload in megabytes.
func FileSizeMB(data []byte) float64 {
	return float64(len(data)) / (1024 * 1024)
}

// Mask hides all but the last visibleChars characters of a sensitive value
// for logging. Short values are fully masked.
func Mask(value string, visibleChars int) string {
	if value == "" || len(value) <= visibleChars {
		return "****"
	}
	return strings.Repeat("*", len(value)-visibleChars) + value[len(value)-visibleChars:]
}
