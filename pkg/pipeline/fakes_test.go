package pipeline

import (
	"context"
	"sync"

	"dimensa-be/pkg/events"
	"dimensa-be/pkg/llm"
	"dimensa-be/pkg/memory"
)

type fakeLLM struct {
	reply   string
	err     error
	calls   int
	history []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	f.history = history
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type fakeImages struct {
	calls   int
	prompts []string
	image   []byte
	err     error
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.image, f.err
}

type fakeModels struct {
	calls  int
	images [][]byte
	model  []byte
	err    error
}

func (f *fakeModels) GenerateModel(ctx context.Context, image []byte) ([]byte, error) {
	f.calls++
	f.images = append(f.images, image)
	return f.model, f.err
}

type fakeShortTerm struct {
	puts   int
	record *memory.Record
	err    error
}

func (f *fakeShortTerm) Put(ctx context.Context, sessionID, userPrompt, assistantResponse string) error {
	f.puts++
	if f.err != nil {
		return f.err
	}
	f.record = &memory.Record{SessionID: sessionID, UserPrompt: userPrompt, AssistantResponse: assistantResponse}
	return nil
}

func (f *fakeShortTerm) Get(ctx context.Context, sessionID string) (*memory.Record, bool, error) {
	if f.record == nil || f.record.SessionID != sessionID {
		return nil, false, nil
	}
	return f.record, true, nil
}

type fakeLongTerm struct {
	saves    int
	queries  int
	saved    []memory.Record
	err      error
	saveErr  error
	ctxAlive bool
}

func (f *fakeLongTerm) Save(ctx context.Context, sessionID, userPrompt, assistantResponse string) error {
	f.saves++
	f.ctxAlive = ctx.Err() == nil
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, memory.Record{SessionID: sessionID, UserPrompt: userPrompt, AssistantResponse: assistantResponse})
	return nil
}

func (f *fakeLongTerm) Query(ctx context.Context, sessionID, queryText string, topK int) ([]memory.Match, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	var out []memory.Match
	for _, r := range f.saved {
		if r.SessionID == sessionID {
			out = append(out, memory.Match{Record: r, Similarity: 0.9})
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
