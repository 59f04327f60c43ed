package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TriggerPhrases is the closed set of phrases that make a prompt recall
// earlier interactions. Matching is a substring test on the lower-cased prompt.
var TriggerPhrases = []string{
	"like the one",
	"like that one",
	"as before",
	"similar to",
}

// HasTrigger reports whether prompt contains any trigger phrase.
func HasTrigger(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, phrase := range TriggerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ContextBuilder assembles memory context for a prompt. It only reads.
type ContextBuilder struct {
	shortTerm ShortTermStore
	longTerm  LongTermStore
	topK      int
}

func NewContextBuilder(shortTerm ShortTermStore, longTerm LongTermStore, topK int) *ContextBuilder {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ContextBuilder{shortTerm: shortTerm, longTerm: longTerm, topK: topK}
}

// Build returns "" without touching either store unless the prompt contains a
// trigger phrase. Otherwise the short-term pair comes first, then long-term
// matches by descending similarity. A store failure is returned alongside
// whatever context could still be built.
func (b *ContextBuilder) Build(ctx context.Context, sessionID, userPrompt string) (string, error) {
	if !HasTrigger(userPrompt) {
		return "", nil
	}

	var (
		sb   strings.Builder
		errs []error
	)

	last, found, err := b.shortTerm.Get(ctx, sessionID)
	switch {
	case err != nil:
		errs = append(errs, err)
	case found:
		fmt.Fprintf(&sb, "\nPrevious prompt: %s\nPrevious response: %s", last.UserPrompt, last.AssistantResponse)
	}

	matches, err := b.longTerm.Query(ctx, sessionID, userPrompt, b.topK)
	if err != nil {
		errs = append(errs, err)
	}
	for i, m := range matches {
		fmt.Fprintf(&sb, "\nPast memory %d - Prompt: %s\nResponse: %s\n", i+1, m.UserPrompt, m.AssistantResponse)
	}

	if len(errs) > 0 {
		return sb.String(), errors.Join(errs...)
	}
	return sb.String(), nil
}
