package output

import "context"

type CompletionRequest struct {
	System string
	User   string
}

// LLMPort is the completion service. Transient-error retries are the
// client's business, not the loop's.
type LLMPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
