package entity

type FailureReason string

const (
	ReasonMalformedAction    FailureReason = "malformed_action"
	ReasonTargetNotFound     FailureReason = "target_not_found"
	ReasonAmbiguousTarget    FailureReason = "ambiguous_target"
	ReasonActionFailed       FailureReason = "action_failed"
	ReasonStepBudgetExceeded FailureReason = "step_budget_exceeded"
	ReasonFatal              FailureReason = "fatal"
)

// Outcome records what happened in one step. Outcomes are appended to the
// history and shown to the model in later prompts, never replayed.
type Outcome struct {
	Step   int
	Action Action // zero value when the response never parsed
	OK     bool
	Reason FailureReason
	Detail string
}

// StepContext is the full input of one loop iteration, rebuilt from live
// browser state plus accumulated history. Each step is a function of this
// context and the two external service calls, nothing else.
type StepContext struct {
	Step      int
	URL       string
	Snapshot  Snapshot
	PageText  string
	History   []Outcome
	Remaining int
}

// AgentResult is the terminal value of a run: the answer text on success,
// or a failure reason with the last step index.
type AgentResult struct {
	Success bool
	Answer  string
	Reason  FailureReason
	Steps   int
}
