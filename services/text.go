package services

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	wordsPerMinute    = 200
	maxTagLength      = 50
	maxTagsPerPost    = 10
	maxDescriptionLen = 200
	maxTitleLen       = 200
	maxBioLen         = 200
	maxCommentLen     = 1000
)

// NormalizeTag lowercases a tag and collapses inner whitespace to a single
// space. It returns "" for tags with no visible characters.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.Join(strings.FieldsFunc(tag, unicode.IsSpace), " "))
}

// normalizeTags normalizes and deduplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// metadata keys of rich content blocks that never hold prose
var nonTextKeys = map[string]struct{}{
	"id":      {},
	"type":    {},
	"time":    {},
	"version": {},
	"url":     {},
	"file":    {},
}

// countWords counts whitespace-separated words across every string value of
// a JSON document, skipping block metadata.
func countWords(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return 0
	}
	return countValueWords(doc)
}

func countValueWords(v any) int {
	switch val := v.(type) {
	case string:
		return len(strings.Fields(stripTags(val)))
	case []any:
		n := 0
		for _, item := range val {
			n += countValueWords(item)
		}
		return n
	case map[string]any:
		n := 0
		for k, item := range val {
			if _, skip := nonTextKeys[k]; skip {
				continue
			}
			n += countValueWords(item)
		}
		return n
	}
	return 0
}

// stripTags drops inline markup such as <b> or <a href=...> so it does not
// count towards the word total.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EstimateReadTime returns whole minutes at 200 words per minute, rounded
// up. Any non-empty body takes at least one minute.
func EstimateReadTime(content []byte) int {
	words := countWords(content)
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
