package pipeline

// State is a step of one orchestrator run.
type State string

const (
	StateStart           State = "start"
	StateExpanding       State = "expanding"
	StateImageGenerating State = "image_generating"
	StateModelGenerating State = "model_generating"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Stage names the remote call a failure belongs to.
type Stage string

const (
	StageRequest   Stage = "request"
	StageExpansion Stage = "expansion"
	StageImage     Stage = "image"
	StageModel3D   Stage = "model3d"
	StageMemory    Stage = "memory"
)

// Service is the human readable name used in user-facing messages.
func (s Stage) Service() string {
	switch s {
	case StageExpansion:
		return "prompt expansion"
	case StageImage:
		return "image generation"
	case StageModel3D:
		return "3D model generation"
	case StageMemory:
		return "memory"
	default:
		return "pipeline"
	}
}

var transitions = map[State][]State{
	StateStart:           {StateExpanding, StateFailed},
	StateExpanding:       {StateImageGenerating, StateFailed},
	StateImageGenerating: {StateModelGenerating, StateFailed},
	StateModelGenerating: {StateDone, StateFailed},
}

// CanTransition reports whether from → to is an edge of the state machine.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
