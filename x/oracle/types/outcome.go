package types

// Stage is the step an oracle command has reached.
type Stage uint8

const (
	StageStart Stage = iota
	StageValidating
	StageAcquiring
	StageNormalizing
	StageInvoking
	StageDispatching
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageStart:       "start",
	StageValidating:  "validating",
	StageAcquiring:   "acquiring",
	StageNormalizing: "normalizing",
	StageInvoking:    "invoking",
	StageDispatching: "dispatching",
	StageDone:        "done",
	StageFailed:      "failed",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Outcome is the terminal state of one command. Err is nil when Done.
type Outcome struct {
	// Stage is StageDone or StageFailed.
	Stage Stage
	// FailedAt is the stage that produced Err.
	FailedAt Stage
	Err      error
}

func Done() Outcome {
	return Outcome{Stage: StageDone}
}

func Failed(at Stage, err error) Outcome {
	return Outcome{Stage: StageFailed, FailedAt: at, Err: err}
}

func (o Outcome) OK() bool {
	return o.Stage == StageDone
}

// ExitCode maps Done to 0 and Failed to 1.
func (o Outcome) ExitCode() int {
	if o.OK() {
		return 0
	}
	return 1
}
