package distribution

import (
	"fmt"
	"strings"
)

// NormalizeTags lowercases tags and strips inner spaces so they render as
// usable hashtags. Input order is preserved.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), " ", "")
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}

// RenderTitle decorates an event title with the prefix and hashtag-rendered
// tags, e.g. "Today in history: Moon Landing #space #history".
func RenderTitle(prefix, title string, tags []string) string {
	parts := []string{strings.TrimSpace(prefix), strings.TrimSpace(title)}

	for _, tag := range NormalizeTags(tags) {
		parts = append(parts, fmt.Sprintf("#%s", tag))
	}

	return strings.Join(parts, " ")
}
