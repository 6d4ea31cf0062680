package repository

import "strings"

const slugMaxLength = 48

// Slugify derives a filesystem-safe base-name fragment from a title:
// lowercase, [a-z0-9_-] only, dash runs collapsed and trimmed, capped at 48
// characters. Distinct titles may collide; that is accepted.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	if slug == "" {
		slug = "untitled"
	}

	var b strings.Builder
	b.Grow(len(slug))
	for _, ch := range slug {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '_', ch == '-':
			b.WriteRune(ch)
		default:
			b.WriteByte('-')
		}
	}
	slug = b.String()

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > slugMaxLength {
		slug = slug[:slugMaxLength]
	}
	if slug == "" {
		return "untitled"
	}
	return slug
}
