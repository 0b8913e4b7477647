// Package validate judges generated answers. Both predicates are pure, total
// functions: they never fail, defaulting to permissive results on odd input.
// Thresholds were tuned empirically; they sit behind stable contracts so a
// different heuristic (or a learned judge) can be dropped in.
package validate

import (
	"strings"

	"cargo-chatbot-be/pkg/rag/score"
	"cargo-chatbot-be/pkg/store"
)

const (
	// minAnswerLength below which an answer is considered too thin.
	minAnswerLength = 40

	// handoffRelevanceThreshold is the context confidence under which the
	// conversation escalates to a human.
	handoffRelevanceThreshold = 0.3
)

// hedgingPhrases that indicate the model is unsure or dodging the question.
var hedgingPhrases = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
	"i cannot find",
	"i can't find",
	"no information",
	"not mentioned in",
	"does not contain",
	"do not contain",
	"don't contain",
	"don't have enough information",
	"unable to answer",
	"as an ai",
}

// IsAcceptable reports whether an answer is stylistically good enough to
// return without refinement: long enough relative to the question and free
// of hedging language.
func IsAcceptable(answer, question string) bool {
	trimmed := strings.TrimSpace(answer)
	if len(trimmed) < minAnswerLength {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// NeedsHumanHelp reports whether the interaction should escalate to a human
// agent. Empty or weakly relevant context is the dominant signal: a fluent
// answer built on bad grounding is worse than a handoff. The check is
// independent of IsAcceptable; an answer can read well and still warrant
// escalation.
func NeedsHumanHelp(question string, docs []store.Document, answer string) bool {
	if len(docs) == 0 {
		return true
	}

	if score.ContextRelevance(docs, question) < handoffRelevanceThreshold {
		return true
	}

	lower := strings.ToLower(answer)
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
