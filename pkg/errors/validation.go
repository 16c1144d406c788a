package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPackageNameLen is the registry's limit on package name length.
const maxPackageNameLen = 214

var scopedNameRe = regexp.MustCompile(`^@[a-z0-9][a-z0-9._~-]*/[a-z0-9._~-]+$`)

// ValidatePackageName validates a registry package name before it is used to
// build a metadata URL.
//
// The rules are conservative:
//   - No empty names, no names longer than 214 characters
//   - No control characters or whitespace
//   - No path traversal sequences or backslashes
//   - Scoped names must look like "@scope/name"
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}
	if len(name) > maxPackageNameLen {
		return New(ErrCodeInvalidInput, "package name too long (max %d characters)", maxPackageNameLen)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "package name contains invalid characters")
		}
	}
	for _, pattern := range []string{"..", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "package name contains invalid characters: %q", pattern)
		}
	}
	if strings.HasPrefix(name, "@") {
		if !scopedNameRe.MatchString(name) {
			return New(ErrCodeInvalidInput, "invalid scoped package name: %s", name)
		}
		return nil
	}
	if strings.Contains(name, "/") {
		return New(ErrCodeInvalidInput, "unscoped package name cannot contain '/': %s", name)
	}
	return nil
}

// ValidateRange validates a requested version range or dist-tag.
// An empty range is accepted and means "latest".
func ValidateRange(rng string) error {
	if len(rng) > 256 {
		return New(ErrCodeInvalidInput, "version range too long (max 256 characters)")
	}
	for _, r := range rng {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "version range contains control characters")
		}
	}
	return nil
}
