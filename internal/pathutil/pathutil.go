package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	// Replace Windows separators and collapse redundant separators/segments.
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// ExpandHome replaces a leading ~ with home and normalizes the result.
func ExpandHome(p, home string) string {
	p = strings.TrimSpace(p)
	switch {
	case p == "":
		return ""
	case p == "~":
		return NormalizePath(home)
	case strings.HasPrefix(p, "~/"), strings.HasPrefix(p, `~\`):
		return NormalizePath(filepath.Join(home, p[2:]))
	}
	return NormalizePath(p)
}

// Abs returns the normalized absolute form of p, or the normalized path when
// the working directory cannot be resolved.
func Abs(p string) string {
	cleaned := NormalizePath(strings.TrimSpace(p))
	if cleaned == "" {
		return ""
	}
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return cleaned
	}
	return abs
}

// Same reports whether a and b name the same file once normalized.
func Same(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return Abs(a) == Abs(b)
}
