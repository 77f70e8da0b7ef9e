package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "machine learning", NormalizeTag("  Machine \t Learning "))
	assert.Equal(t, "", NormalizeTag(" \n "))
	assert.Equal(t, []string{"go", "web dev"}, normalizeTags([]string{"Go", "web  dev", "GO", "", "Web Dev"}))
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		words   int
	}{
		{"empty", ``, 0},
		{"invalid json", `{"blocks":`, 0},
		{"plain string", `"one two three"`, 3},
		{"editor blocks", `{"time":1700000000,"version":"2.28","blocks":[{"id":"a1","type":"header","data":{"text":"Hello there"}},{"id":"a2","type":"list","data":{"items":["first item","second"]}}]}`, 5},
		{"inline markup", `[{"type":"paragraph","data":{"text":"<b>bold</b> and <a href=\"https://x.y\">link</a>"}}]`, 3},
		{"image url skipped", `[{"type":"image","data":{"file":{"url":"https://cdn/x.png"},"caption":"a cat"}}]`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.words, countWords([]byte(tt.content)))
		})
	}
}

func TestEstimateReadTime(t *testing.T) {
	doc := func(words int) []byte {
		b, _ := json.Marshal([]map[string]any{{"type": "paragraph", "data": map[string]string{"text": strings.TrimSpace(strings.Repeat("word ", words))}}})
		return b
	}

	assert.Equal(t, 0, EstimateReadTime([]byte(`[]`)))
	assert.Equal(t, 1, EstimateReadTime(doc(1)))
	assert.Equal(t, 1, EstimateReadTime(doc(200)))
	assert.Equal(t, 2, EstimateReadTime(doc(201)))
	assert.Equal(t, 5, EstimateReadTime(doc(1000)))
}
