package pipeline

import (
	"cargo-chatbot-be/pkg/rag/classify"
	"cargo-chatbot-be/pkg/rag/session"
	"cargo-chatbot-be/pkg/store"
)

// State carries one invocation through the pipeline. It is created per
// request, mutated monotonically by successive steps, and never shared
// across concurrent invocations.
type State struct {
	// Input
	Question  string
	History   []session.Message
	SessionId string

	// Processing
	Category         classify.Category
	Context          []store.Document
	ContextRelevance float64

	// Output
	Answer               string
	NeedsRefinement      bool
	NeedsHumanAssistance bool
	FinalAnswer          string
}

// Step identifies a pipeline state. The set is closed; transitions are fixed
// in the dispatch table with a single conditional branch out of stepValidate.
type Step int

const (
	stepCategorize Step = iota
	stepRetrieve
	stepGenerate
	stepValidate
	stepRefine
	stepHandleHumanAssistance
	stepDone
)

func (s Step) String() string {
	switch s {
	case stepCategorize:
		return "categorize"
	case stepRetrieve:
		return "retrieve"
	case stepGenerate:
		return "generate"
	case stepValidate:
		return "validate"
	case stepRefine:
		return "refine"
	case stepHandleHumanAssistance:
		return "handleHumanAssistance"
	case stepDone:
		return "done"
	}
	return "unknown"
}
