package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dimensa-be/internal/pkg/logger"
	"dimensa-be/pkg/events"
	"dimensa-be/pkg/memory"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "dimensa-be/pipeline"
	logModule          = "PIPELINE"
	memoryWriteTimeout = 30 * time.Second
)

// ErrEmptyPrompt is returned for a blank user prompt.
var ErrEmptyPrompt = errors.New("user prompt is empty")

type ContextBuilder interface {
	Build(ctx context.Context, sessionID, userPrompt string) (string, error)
}

type PromptExpander interface {
	Expand(ctx context.Context, userPrompt, memoryContext string) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type ModelGenerator interface {
	GenerateModel(ctx context.Context, image []byte) ([]byte, error)
}

// Request is one accepted pipeline invocation.
type Request struct {
	SessionID  string
	UserPrompt string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID          string
	SessionID      string
	ExpandedPrompt string
	Model          []byte
	State          State
}

// Dependencies groups the collaborators of an Orchestrator. Publisher and
// Logger are optional.
type Dependencies struct {
	ContextBuilder ContextBuilder
	Expander       PromptExpander
	Images         ImageGenerator
	Models         ModelGenerator
	ShortTerm      memory.ShortTermStore
	LongTerm       memory.LongTermStore
	Publisher      events.Publisher
	Logger         logger.ILogger
}

// Orchestrator drives one request through expansion, image generation and
// 3D generation, strictly in that order and without retries.
type Orchestrator struct {
	deps   Dependencies
	tracer trace.Tracer
	newID  func() string
	now    func() time.Time
}

func NewOrchestrator(deps Dependencies) *Orchestrator {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Orchestrator{
		deps:   deps,
		tracer: otel.Tracer(tracerName),
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
}

// Run executes the pipeline. On any stage failure it returns a classified
// *Error and writes nothing to memory.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	r := &run{o: o, id: o.newID(), sessionID: req.SessionID, state: StateStart, started: o.now()}

	if strings.TrimSpace(req.UserPrompt) == "" {
		return nil, r.fail(ctx, NewError(KindInvalidRequest, StageRequest, ErrEmptyPrompt))
	}

	r.advance(ctx, StateExpanding, nil)

	memoryContext, err := o.deps.ContextBuilder.Build(ctx, req.SessionID, req.UserPrompt)
	if err != nil {
		o.deps.Logger.Warn(logModule, "Memory context unavailable, continuing without it", map[string]interface{}{
			"run_id":     r.id,
			"session_id": req.SessionID,
			"kind":       string(KindMemoryUnavailable),
			"error":      err.Error(),
		})
	}

	var expanded string
	err = o.stage(ctx, "pipeline.expand", StageExpansion, func(ctx context.Context) error {
		var err error
		expanded, err = o.deps.Expander.Expand(ctx, req.UserPrompt, memoryContext)
		return err
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	r.advance(ctx, StateImageGenerating, map[string]interface{}{"expanded_chars": len(expanded)})

	var image []byte
	err = o.stage(ctx, "pipeline.image", StageImage, func(ctx context.Context) error {
		var err error
		image, err = o.deps.Images.GenerateImage(ctx, expanded)
		return err
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	r.advance(ctx, StateModelGenerating, map[string]interface{}{"image_bytes": len(image)})

	var model []byte
	err = o.stage(ctx, "pipeline.model3d", StageModel3D, func(ctx context.Context) error {
		var err error
		model, err = o.deps.Models.GenerateModel(ctx, image)
		return err
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	o.remember(ctx, r, req.UserPrompt, expanded)
	r.advance(ctx, StateDone, map[string]interface{}{"model_bytes": len(model)})

	return &Result{
		RunID:          r.id,
		SessionID:      req.SessionID,
		ExpandedPrompt: expanded,
		Model:          model,
		State:          r.state,
	}, nil
}

// stage runs fn inside a span and classifies its error under stage.
func (o *Orchestrator) stage(ctx context.Context, spanName string, stage Stage, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("pipeline.stage", string(stage))))
	defer span.End()

	if err := fn(ctx); err != nil {
		classified := Classify(stage, err, KindGenerationFailure)
		span.RecordError(classified)
		span.SetStatus(codes.Error, string(classified.Kind))
		return classified
	}
	return nil
}

// remember writes the interaction to both stores. It outlives caller
// cancellation and never fails the run.
func (o *Orchestrator) remember(ctx context.Context, r *run, userPrompt, response string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), memoryWriteTimeout)
	defer cancel()

	if err := o.deps.ShortTerm.Put(ctx, r.sessionID, userPrompt, response); err != nil {
		o.logMemoryFailure(r, "short_term", err)
	}
	if err := o.deps.LongTerm.Save(ctx, r.sessionID, userPrompt, response); err != nil {
		o.logMemoryFailure(r, "long_term", err)
	}
}

func (o *Orchestrator) logMemoryFailure(r *run, store string, err error) {
	o.deps.Logger.Error(logModule, "Failed to write memory", map[string]interface{}{
		"run_id":     r.id,
		"session_id": r.sessionID,
		"store":      store,
		"kind":       string(KindMemoryUnavailable),
		"error":      err,
	})
}

// run tracks the state of one invocation.
type run struct {
	o         *Orchestrator
	id        string
	sessionID string
	state     State
	started   time.Time
}

func (r *run) advance(ctx context.Context, to State, extra map[string]interface{}) {
	if !CanTransition(r.state, to) {
		// Programming error: the sequence in Run is fixed.
		panic(fmt.Sprintf("pipeline: invalid transition %s -> %s", r.state, to))
	}
	from := r.state
	r.state = to

	details := map[string]interface{}{
		"run_id":     r.id,
		"session_id": r.sessionID,
		"from":       string(from),
		"to":         string(to),
	}
	for k, v := range extra {
		details[k] = v
	}
	r.o.deps.Logger.Info(logModule, "State transition", details)

	extra = copyDetails(extra)
	extra["from"] = string(from)
	r.publish(ctx, eventTypeFor(to), extra)
}

// fail moves the run to Failed and returns err as a classified error.
func (r *run) fail(ctx context.Context, err error) error {
	classified := Classify(StageRequest, err, KindGenerationFailure)
	from := r.state
	r.state = StateFailed

	r.o.deps.Logger.Error(logModule, "Pipeline failed", map[string]interface{}{
		"run_id":     r.id,
		"session_id": r.sessionID,
		"from":       string(from),
		"stage":      string(classified.Stage),
		"kind":       string(classified.Kind),
		"error":      classified,
	})
	r.publish(ctx, events.TypePipelineFailed, map[string]interface{}{
		"from":  string(from),
		"stage": string(classified.Stage),
		"kind":  string(classified.Kind),
	})
	return classified
}

func (r *run) publish(ctx context.Context, eventType string, extra map[string]interface{}) {
	evt := events.NewPipelineEvent(eventType, r.id, r.sessionID, r.o.now().Sub(r.started), extra)
	if err := r.o.deps.Publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		r.o.deps.Logger.Warn(logModule, "Failed to publish pipeline event", map[string]interface{}{
			"run_id": r.id,
			"type":   eventType,
			"error":  err.Error(),
		})
	}
}

func eventTypeFor(s State) string {
	switch s {
	case StateExpanding:
		return events.TypePipelineExpanding
	case StateImageGenerating:
		return events.TypePipelineImageGenerating
	case StateModelGenerating:
		return events.TypePipelineModelGenerating
	case StateDone:
		return events.TypePipelineDone
	default:
		return events.TypePipelineFailed
	}
}

func copyDetails(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
