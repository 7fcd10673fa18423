package render

import "strings"

// ParseTags splits free text into hashtags: whitespace or comma separated,
// "#"-prefixed, de-duplicated, order preserved.
func ParseTags(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	var tags []string
	for _, f := range fields {
		tags = AddTag(tags, f)
	}
	return tags
}

// NormalizeTag trims a tag and ensures a single leading "#".
// It returns "" for input that carries no tag text.
func NormalizeTag(tag string) string {
	t := strings.TrimLeft(strings.TrimSpace(tag), "#")
	if t == "" {
		return ""
	}
	return "#" + t
}

// AddTag appends tag to the ordered set unless it is already present.
func AddTag(tags []string, tag string) []string {
	t := NormalizeTag(tag)
	if t == "" {
		return tags
	}
	for _, existing := range tags {
		if existing == t {
			return tags
		}
	}
	return append(tags, t)
}

// RemoveTag returns tags without tag.
func RemoveTag(tags []string, tag string) []string {
	t := NormalizeTag(tag)
	out := tags[:0:0]
	for _, existing := range tags {
		if existing != t {
			out = append(out, existing)
		}
	}
	return out
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		out = AddTag(out, t)
	}
	return out
}
