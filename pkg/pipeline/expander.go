package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dimensa-be/pkg/llm"
)

// ErrEmptyExpansion is returned when the text service answers with only whitespace.
var ErrEmptyExpansion = errors.New("empty completion from text service")

// Expander turns a terse idea into a detailed visual description with a
// single call to the text service.
type Expander struct {
	provider     llm.LLMProvider
	systemPrompt string
	userTemplate string
	options      []llm.Option
}

// NewExpander builds an expander. userTemplate receives the memory context
// and the current prompt, in that order.
func NewExpander(provider llm.LLMProvider, systemPrompt, userTemplate string, options ...llm.Option) *Expander {
	return &Expander{
		provider:     provider,
		systemPrompt: systemPrompt,
		userTemplate: userTemplate,
		options:      options,
	}
}

// BuildMessages assembles the persona and the user message sent to the text service.
func (e *Expander) BuildMessages(userPrompt, memoryContext string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: e.systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(e.userTemplate, memoryContext, userPrompt)},
	}
}

// Expand returns the trimmed completion. Failures are classified under
// StageExpansion; an empty completion is a GenerationFailure.
func (e *Expander) Expand(ctx context.Context, userPrompt, memoryContext string) (string, error) {
	reply, err := e.provider.Chat(ctx, e.BuildMessages(userPrompt, memoryContext), e.options...)
	if err != nil {
		return "", Classify(StageExpansion, err, KindGenerationFailure)
	}

	expanded := strings.TrimSpace(reply)
	if expanded == "" {
		return "", NewError(KindGenerationFailure, StageExpansion, ErrEmptyExpansion)
	}
	return expanded, nil
}
