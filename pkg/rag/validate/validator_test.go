package validate

import (
	"strings"
	"testing"

	"cargo-chatbot-be/pkg/store"
)

func doc(content, source, category string) store.Document {
	return store.Document{
		Content: content,
		Metadata: map[string]string{
			store.MetaSource:   source,
			store.MetaCategory: category,
		},
	}
}

func TestIsAcceptable(t *testing.T) {
	longAnswer := "Barley shipments to the EU run weekly from Novorossiysk with a transit time of nine days."

	tests := []struct {
		name     string
		answer   string
		question string
		want     bool
	}{
		{
			name:     "good answer",
			answer:   longAnswer,
			question: "barley shipping",
			want:     true,
		},
		{
			name:     "too short",
			answer:   "Nine days.",
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "exactly at length floor",
			answer:   strings.Repeat("a", 40),
			question: "barley shipping",
			want:     true,
		},
		{
			name:     "one under length floor",
			answer:   strings.Repeat("a", 39),
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "whitespace does not count",
			answer:   "   short   " + strings.Repeat(" ", 50),
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "hedging phrase rejected",
			answer:   "I'm not sure about that, but barley shipments might run weekly from the port.",
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "hedging case insensitive",
			answer:   "I DON'T KNOW the exact schedule but it is probably once per week in summer.",
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "plural hedging rejected",
			answer:   "The documents do not contain the current rate for barley shipments to the EU.",
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "contracted hedging rejected",
			answer:   "Our documents don't contain the current rate for barley shipments to the EU.",
			question: "barley shipping",
			want:     false,
		},
		{
			name:     "ai disclaimer rejected",
			answer:   "As an AI I cannot give you current information about barley shipping schedules.",
			question: "barley shipping",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAcceptable(tt.answer, tt.question)
			if got != tt.want {
				t.Errorf("IsAcceptable(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestNeedsHumanHelp(t *testing.T) {
	question := "barley shipping rates"
	relevant := []store.Document{
		doc("Barley shipping rates for the Black Sea corridor.", "barley_rates.md", "Barley"),
	}
	irrelevant := []store.Document{
		doc("Office opening hours and contact details.", "contact.md", "General"),
	}
	goodAnswer := "Barley shipping rates start at 42 USD per tonne on the Black Sea corridor."

	tests := []struct {
		name   string
		docs   []store.Document
		answer string
		want   bool
	}{
		{
			name:   "empty context escalates",
			docs:   nil,
			answer: goodAnswer,
			want:   true,
		},
		{
			name:   "low relevance context escalates",
			docs:   irrelevant,
			answer: goodAnswer,
			want:   true,
		},
		{
			name:   "relevant context with confident answer",
			docs:   relevant,
			answer: goodAnswer,
			want:   false,
		},
		{
			name:   "hedging answer escalates despite good context",
			docs:   relevant,
			answer: "The documents do not contain that rate.",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeedsHumanHelp(question, tt.docs, tt.answer)
			if got != tt.want {
				t.Errorf("NeedsHumanHelp() = %v, want %v", got, tt.want)
			}
		})
	}
}
