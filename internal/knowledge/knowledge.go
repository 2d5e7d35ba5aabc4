// Package knowledge serves short screening reference snippets that ground the
// dialogue prompt in the assessment being run.
package knowledge

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultAssessmentType is used when a dialogue turn names no assessment
const DefaultAssessmentType = "general"

//go:embed knowledge.yaml
var defaultKnowledge []byte

// Snippet is one reference entry
type Snippet struct {
	ID       string   `yaml:"id"`
	Types    []string `yaml:"types"`
	Keywords []string `yaml:"keywords"`
	Text     string   `yaml:"text"`
}

// Base is an immutable, concurrency-safe snippet index
type Base struct {
	snippets []Snippet
}

// Parse decodes a YAML list of snippets
func Parse(data []byte) (*Base, error) {
	var snippets []Snippet
	if err := yaml.Unmarshal(data, &snippets); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	for i, s := range snippets {
		if s.ID == "" || s.Text == "" {
			return nil, fmt.Errorf("knowledge snippet %d: id and text are required", i)
		}
	}
	return &Base{snippets: snippets}, nil
}

var loadDefault = sync.OnceValues(func() (*Base, error) {
	return Parse(defaultKnowledge)
})

// Default returns the embedded knowledge base. It is parsed on first use and shared
// by every caller.
func Default() (*Base, error) {
	return loadDefault()
}

// Len is the number of snippets
func (b *Base) Len() int {
	return len(b.snippets)
}

// Match returns up to limit snippets for the assessment type, ranked by how many
// of their keywords occur in the query. Snippets with no hits are skipped.
func (b *Base) Match(assessmentType, query string, limit int) []Snippet {
	if assessmentType == "" {
		assessmentType = DefaultAssessmentType
	}
	words := tokenize(query)

	type hit struct {
		s     Snippet
		score int
		order int
	}
	var hits []hit
	for i, s := range b.snippets {
		if !hasType(s, assessmentType) {
			continue
		}
		score := 0
		for _, k := range s.Keywords {
			if words[strings.ToLower(k)] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{s: s, score: score, order: i})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Snippet, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}

func hasType(s Snippet, assessmentType string) bool {
	for _, t := range s.Types {
		if strings.EqualFold(t, assessmentType) {
			return true
		}
	}
	return false
}

func tokenize(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	}) {
		words[w] = true
	}
	return words
}
