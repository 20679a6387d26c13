package media

import (
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// buildFileName generates a collision-resistant filename that keeps the
// original extension.
func buildFileName(original, fallbackExt string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 || !isSafeSegment(ext) {
		ext = fallbackExt
	}
	return "media-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// detectContentType falls back from the declared type to the extension and
// finally to sniffing the payload.
func detectContentType(filename string, payload []byte, declared string) string {
	if ct := normalizeMIME(declared); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := normalizeMIME(mime.TypeByExtension(ext)); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return normalizeMIME(http.DetectContentType(payload))
	}
	return "application/octet-stream"
}

// normalizeMIME drops parameters such as "; charset=utf-8".
func normalizeMIME(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(raw); err == nil {
		return mt
	}
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// nameFromURL returns the last path segment of a download URL.
func nameFromURL(rawPath string) string {
	base := path.Base(rawPath)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// safeName returns the base name of raw only when it passes isSafeSegment.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	if !isSafeSegment(name) {
		return ""
	}
	return name
}

// isSafeSegment reports whether s only uses [A-Za-z0-9._-].
func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}
