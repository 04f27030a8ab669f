package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	maxIDLength   = 128
	maxNameLength = 200
)

// ValidateID checks a layout, wedding, table, seat or guest identifier.
// Identifiers end up in URL paths, cache keys and document map keys, so they
// must be non-empty, at most 128 bytes, free of whitespace and control
// characters, and must not contain path separators or "..".
func ValidateID(kind, id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	case len(id) > maxIDLength:
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	case strings.ContainsAny(id, `/\`) || strings.Contains(id, ".."):
		return New(ErrCodeInvalidInput, "%s id %q must not look like a path", kind, id)
	}
	if strings.ContainsFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) {
		return New(ErrCodeInvalidInput, "%s id contains whitespace or control characters", kind)
	}
	return nil
}

// ValidateName checks a human-entered display name such as a layout or
// wedding name. Tabs are allowed; other control characters are not.
func ValidateName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Validation("%s cannot be empty", field)
	}
	if len(trimmed) > maxNameLength {
		return Validation("%s too long (max %d characters)", field, maxNameLength)
	}
	if strings.ContainsFunc(name, func(r rune) bool {
		return unicode.IsControl(r) && r != '\t'
	}) {
		return Validation("%s contains control characters", field)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host. Preview
// images are stored as links only, so anything else is rejected.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host")
	}
	return nil
}
