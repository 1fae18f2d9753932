package input

import (
	"context"

	"gurney/internal/domain/entity"
)

// GoalRunner drives one agent run: navigate to the start URL and work the
// perceive-decide-act loop until a terminal state.
type GoalRunner interface {
	Run(ctx context.Context, goal, startURL string) (*entity.AgentResult, error)
}
