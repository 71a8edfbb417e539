package arg

import "strings"

// HandleQuery joins positional arguments into one search query, so both
// `sleuth search 파일 정리` and `sleuth search "파일 정리"` work.
func HandleQuery(args []string) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

// HandleChoice lowercases the first argument, or returns def when there is none.
func HandleChoice(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return strings.ToLower(strings.TrimSpace(args[0]))
}
