package utils

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// IsTransient reports whether err looks like a temporary upstream condition (rate limit,
// 5xx, timeout, reset connection). The pipeline never retries; this only annotates the
// recorded failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == 429
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == 429
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"rate limit",
		"502 bad gateway",
		"503 service unavailable",
		"504 gateway timeout",
		"timeout",
		"connection reset by peer",
		"connection refused",
	} {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}

// IsTimeout reports whether err is a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DetermineFileType names the content type of an exported file.
func DetermineFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return "HTML"
	case ".css":
		return "CSS"
	case ".js":
		return "JavaScript"
	case ".json":
		return "JSON"
	case ".svg":
		return "SVG"
	case ".txt":
		return "Text"
	case ".xml":
		return "XML"
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return "Image"
	default:
		return "Unknown"
	}
}
