package domain

import "regexp"

var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_.]+)`)

// ExtractHandles returns the distinct handles mentioned in text, without the
// leading '@', in order of first appearance. Matching is case-sensitive.
func ExtractHandles(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		h := m[1]
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		handles = append(handles, h)
	}
	return handles
}
