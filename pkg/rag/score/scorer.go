// Package score holds the lexical relevance heuristics used to re-rank
// retrieved documents and to estimate how well the selected context covers a
// question. Both functions are deterministic and side-effect free so a
// stronger scorer (e.g. a cross-encoder) can replace them without touching
// callers.
package score

import (
	"strings"

	"cargo-chatbot-be/pkg/store"
)

// stopwords excluded from keyword extraction. Short function words carry no
// retrieval signal and would otherwise dominate the overlap counts.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "can": true, "do": true, "does": true, "for": true,
	"from": true, "how": true, "i": true, "in": true, "is": true, "it": true,
	"much": true, "my": true, "of": true, "on": true, "or": true, "tell": true,
	"that": true, "the": true, "this": true, "to": true, "we": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"will": true, "with": true, "you": true, "your": true,
}

const (
	contentHitWeight  = 1.0
	metadataHitWeight = 2.0

	// keywordsForFullScore is the per-document saturation point: a document
	// scoring this many weighted keyword hits counts as fully relevant.
	keywordsForFullScore = 3.0
)

// Keywords extracts the meaningful lowercase terms of a question, preserving
// first-occurrence order.
func Keywords(question string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range tokenize(question) {
		if len(w) < 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// DocumentRelevance scores the affinity between a question and a single
// document. Content keyword hits count once each; hits in the document's
// source or category metadata are weighted higher because the knowledge base
// files are named after their topics. The score has no upper bound; it is
// only used for ordering.
func DocumentRelevance(question string, doc store.Document) float64 {
	keywords := Keywords(question)
	if len(keywords) == 0 {
		return 0
	}

	content := strings.ToLower(doc.Content)
	meta := strings.ToLower(doc.Source() + " " + doc.Category())

	var s float64
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			s += contentHitWeight
		}
		if strings.Contains(meta, kw) {
			s += metadataHitWeight
		}
	}
	return s
}

// ContextRelevance estimates, in [0,1], how confidently the selected
// documents answer the question. It is 0 for empty context. The estimate
// blends keyword coverage (how many question terms appear anywhere in the
// context) with per-document saturation (how strongly the average document
// matches).
func ContextRelevance(docs []store.Document, question string) float64 {
	if len(docs) == 0 {
		return 0
	}

	keywords := Keywords(question)
	if len(keywords) == 0 {
		// Nothing to match against; context exists but confidence is unknowable.
		return 0.5
	}

	covered := 0
	for _, kw := range keywords {
		for _, doc := range docs {
			if strings.Contains(strings.ToLower(doc.Content), kw) ||
				strings.Contains(strings.ToLower(doc.Source()+" "+doc.Category()), kw) {
				covered++
				break
			}
		}
	}
	coverage := float64(covered) / float64(len(keywords))

	var meanDoc float64
	for _, doc := range docs {
		d := DocumentRelevance(question, doc) / keywordsForFullScore
		if d > 1 {
			d = 1
		}
		meanDoc += d
	}
	meanDoc /= float64(len(docs))

	relevance := 0.7*coverage + 0.3*meanDoc
	if relevance > 1 {
		relevance = 1
	}
	return relevance
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}
