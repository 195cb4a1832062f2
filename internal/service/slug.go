package service

import "strings"

const maxSlugLen = 64

// slugFilename derives a safe filename for an authored TEXT document from
// its title: runs of characters outside [A-Za-z0-9] collapse to a single
// underscore, the result is length-capped, and a .txt extension is appended.
// An empty or fully-sanitized-away title falls back to "document".
func slugFilename(title string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	slug := strings.Trim(b.String(), "_")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "_")
	}
	if slug == "" {
		slug = "document"
	}
	return slug + ".txt"
}
