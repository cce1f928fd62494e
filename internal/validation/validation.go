// Package validation guards the values the preview server hands to the
// operating system or accepts from browsers: URLs opened in a browser,
// WebSocket origins, output files, and request path values.
package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// dangerousURLChars could enable command injection when a URL reaches a
// browser launcher.
var dangerousURLChars = []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r", "\t", "\x00"}

// ValidateURL validates URLs for browser auto-open.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	for _, char := range dangerousURLChars {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	if strings.Contains(rawURL, " ") {
		return fmt.Errorf("URL contains spaces")
	}

	// Encoded line breaks survive parsing and reach the launcher decoded.
	lower := strings.ToLower(rawURL)
	if strings.Contains(lower, "%0a") || strings.Contains(lower, "%0d") || strings.Contains(lower, "%00") {
		return fmt.Errorf("URL contains an encoded control character")
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ValidateOrigin checks a WebSocket Origin header. Same-host origins are
// always accepted; others must match an entry of allowedOrigins, either as
// a full origin or as a bare host[:port].
func ValidateOrigin(origin, requestHost string, allowedOrigins []string) error {
	if origin == "" {
		return fmt.Errorf("origin header is required")
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin format: %w", err)
	}

	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return fmt.Errorf("invalid origin scheme '%s': only http and https are allowed", originURL.Scheme)
	}

	if originURL.Host == "" {
		return fmt.Errorf("origin '%s' has no host", origin)
	}

	if requestHost != "" && strings.EqualFold(originURL.Host, requestHost) {
		return nil
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed || strings.EqualFold(originURL.Host, allowed) {
			return nil
		}
	}

	return fmt.Errorf("origin '%s' is not in allowed origins list", origin)
}

// ValidateFileExtension validates file extensions against an allowlist
func ValidateFileExtension(filename string, allowedExtensions []string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file must have an extension")
	}

	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return fmt.Errorf("file extension '%s' is not allowed", ext)
}

// SanitizeInput removes NUL bytes and control characters other than common
// whitespace.
func SanitizeInput(input string) string {
	var sanitized strings.Builder
	sanitized.Grow(len(input))
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' || r == '\r' {
			sanitized.WriteRune(r)
		}
	}
	return sanitized.String()
}
