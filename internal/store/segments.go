package store

import "strings"

// splitSegments breaks ticket content into its splittable parts: one segment
// per non-blank line, whitespace trimmed.
func splitSegments(content string) []string {
	segments := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		segments = append(segments, trimmed)
	}
	return segments
}

func joinSegments(segments []string) string {
	return strings.Join(segments, "\n")
}
