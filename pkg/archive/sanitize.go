package archive

import "strings"

const maxDirNameLength = 100

// SanitizeName turns a profile name into a filesystem-safe directory
// name: invalid characters become underscores, leading and trailing
// dots and spaces are trimmed, and the result is length-capped.
// Collisions between sanitized names are not deduplicated; the later
// conversation overwrites the earlier one.
func SanitizeName(name string) string {
	const invalid = `<>:"/\|?*`

	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalid, r) {
			return '_'
		}
		return r
	}, name)

	sanitized = strings.Trim(sanitized, ". ")

	if runes := []rune(sanitized); len(runes) > maxDirNameLength {
		sanitized = string(runes[:maxDirNameLength])
	}

	if sanitized == "" {
		return "unknown"
	}
	return sanitized
}
