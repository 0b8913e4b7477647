package retrieve

import (
	"context"
	"log"
	"sort"

	"cargo-chatbot-be/pkg/rag/classify"
	"cargo-chatbot-be/pkg/rag/score"
	"cargo-chatbot-be/pkg/store"
)

// VectorSearcher is the external nearest-neighbour search collaborator. It
// returns candidates ordered by search rank and may fail; the Retriever
// absorbs failures.
type VectorSearcher interface {
	Search(ctx context.Context, query string, k int) ([]store.Document, error)
}

const (
	// searchK is how many candidates we over-fetch from the vector index
	// before filtering and re-ranking.
	searchK = 12

	// ContextLimit caps the documents handed to generation.
	ContextLimit = 4

	// minFilteredCandidates is the floor below which the in-memory category
	// filter is discarded in favour of the unfiltered candidate set.
	minFilteredCandidates = 3
)

// Retriever fetches, filters and re-ranks knowledge documents for a question.
type Retriever struct {
	searcher VectorSearcher
	logger   *log.Logger
}

func NewRetriever(searcher VectorSearcher, logger *log.Logger) *Retriever {
	return &Retriever{
		searcher: searcher,
		logger:   logger,
	}
}

// Retrieve returns up to k documents for the question, most relevant first.
//
// The category is applied as an in-memory filter rather than pushed into the
// index query: index-side metadata filtering proved unreliable, and a filter
// that strips the candidate set below minFilteredCandidates is dropped
// entirely (more context beats an empty set). A failing search degrades to
// "no context" instead of aborting the conversation.
func (r *Retriever) Retrieve(ctx context.Context, question string, category classify.Category, k int) []store.Document {
	if k <= 0 || k > ContextLimit {
		k = ContextLimit
	}

	candidates, err := r.searcher.Search(ctx, question, searchK)
	if err != nil {
		// Single swallow point for retrieval degradation.
		r.logger.Printf("[RETRIEVE] Vector search failed, continuing with empty context: %v", err)
		return nil
	}

	selected := candidates
	if category != classify.CategoryGeneral {
		filtered := make([]store.Document, 0, len(candidates))
		for _, doc := range candidates {
			if doc.Category() == category.String() {
				filtered = append(filtered, doc)
			}
		}
		if len(filtered) >= minFilteredCandidates {
			selected = filtered
		} else {
			r.logger.Printf("[RETRIEVE] Category filter %q left %d candidates, keeping unfiltered set",
				category, len(filtered))
		}
	}

	ranked := rankByRelevance(question, selected)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// rankByRelevance orders documents by descending relevance score. Ties keep
// the original search rank (stable sort).
func rankByRelevance(question string, docs []store.Document) []store.Document {
	ranked := make([]store.Document, len(docs))
	copy(ranked, docs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score.DocumentRelevance(question, ranked[i]) > score.DocumentRelevance(question, ranked[j])
	})
	return ranked
}
