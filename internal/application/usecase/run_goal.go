package usecase

import (
	"context"
	"errors"
	"fmt"

	"gurney/internal/application/port/input"
	"gurney/internal/application/port/output"
	"gurney/internal/application/service"
	"gurney/internal/domain/entity"
	"gurney/internal/infrastructure/prompts"
)

const defaultMaxSteps = 20

var _ input.GoalRunner = (*RunGoalUseCase)(nil)

// RunGoalUseCase is the perceive-decide-act loop. One step at a time,
// strictly sequential: observe the page, ask the model for an action,
// resolve and execute it, record the outcome. Per-step failures go into the
// history so the model can see them and re-plan; only infrastructure errors
// abort the run.
type RunGoalUseCase struct {
	browser output.BrowserPort
	llm     output.LLMPort
	shots   output.ScreenshotStore
	creds   *service.CredentialInjector
	logger  output.LoggerPort
	cfg     Config
}

type Config struct {
	MaxSteps     int
	SystemPrompt string
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:     defaultMaxSteps,
		SystemPrompt: prompts.DefaultSystemPrompt,
	}
}

func New(
	browser output.BrowserPort,
	llm output.LLMPort,
	shots output.ScreenshotStore,
	creds *service.CredentialInjector,
	logger output.LoggerPort,
	cfg Config,
) *RunGoalUseCase {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = defaultMaxSteps
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = prompts.DefaultSystemPrompt
	}
	return &RunGoalUseCase{
		browser: browser,
		llm:     llm,
		shots:   shots,
		creds:   creds,
		logger:  logger,
		cfg:     cfg,
	}
}

// Run drives the loop until an answer, step budget exhaustion or a fatal
// error. A final-page screenshot is persisted on every termination path,
// best effort on the fatal one.
//
// Retry policy is a fixed budget: every cycle consumes one step, including
// cycles that end in a malformed response or a resolution failure. There is
// no escalation on repeated failures.
func (uc *RunGoalUseCase) Run(ctx context.Context, goal, startURL string) (*entity.AgentResult, error) {
	uc.logger.Info("Agent run started", "goal", goal, "url", startURL, "maxSteps", uc.cfg.MaxSteps)

	if err := uc.browser.Navigate(ctx, startURL); err != nil {
		uc.captureScreenshot("fatal")
		return uc.fatal(0, fmt.Errorf("navigate to start url: %w", err))
	}

	history := make([]entity.Outcome, 0, uc.cfg.MaxSteps)

	for step := 0; step < uc.cfg.MaxSteps; step++ {
		// Stop signals are honored between steps only, never mid-action,
		// so the page is never left half-interacted.
		select {
		case <-ctx.Done():
			uc.captureScreenshot("cancelled")
			return uc.fatal(step, ctx.Err())
		default:
		}

		stepCtx, err := uc.observe(ctx, step, history)
		if err != nil {
			uc.captureScreenshot("fatal")
			return uc.fatal(step, err)
		}

		userPrompt, err := prompts.BuildUserPrompt(goal, stepCtx)
		if err != nil {
			uc.captureScreenshot("fatal")
			return uc.fatal(step, err)
		}

		raw, err := uc.llm.Complete(ctx, output.CompletionRequest{
			System: uc.cfg.SystemPrompt,
			User:   userPrompt,
		})
		if err != nil {
			uc.captureScreenshot("fatal")
			return uc.fatal(step, fmt.Errorf("completion service: %w", err))
		}

		action, err := entity.ParseAction(raw)
		if err != nil {
			uc.logger.Warn("Malformed model response", "step", step, "error", err, "response", clip(raw, 300))
			history = append(history, entity.Outcome{
				Step:   step,
				Reason: entity.ReasonMalformedAction,
				Detail: err.Error(),
			})
			continue
		}

		uc.logger.Info("Action decided", "step", step, "action", action.String(), "reason", action.Reason)

		if action.Kind == entity.ActionAnswer {
			uc.captureScreenshot("exit")
			uc.logger.Info("Agent answered", "steps", step+1)
			return &entity.AgentResult{
				Success: true,
				Answer:  action.Text,
				Steps:   step + 1,
			}, nil
		}

		action = uc.creds.Inject(action)

		if err := uc.execute(ctx, action); err != nil {
			reason := classify(err)
			uc.logger.Warn("Action failed", "step", step, "reason", string(reason), "error", err)
			history = append(history, entity.Outcome{
				Step:   step,
				Action: action,
				Reason: reason,
				Detail: err.Error(),
			})
			continue
		}

		history = append(history, entity.Outcome{Step: step, Action: action, OK: true})
	}

	uc.captureScreenshot("exit")
	uc.logger.Warn("Step budget exhausted", "maxSteps", uc.cfg.MaxSteps)
	return &entity.AgentResult{
		Reason: entity.ReasonStepBudgetExceeded,
		Steps:  uc.cfg.MaxSteps,
	}, nil
}

// observe rebuilds the step context from live browser state plus the
// accumulated history.
func (uc *RunGoalUseCase) observe(ctx context.Context, step int, history []entity.Outcome) (entity.StepContext, error) {
	snapshot, err := uc.browser.Snapshot(ctx)
	if err != nil {
		return entity.StepContext{}, fmt.Errorf("snapshot: %w", err)
	}

	pageText, err := uc.browser.PageText(ctx)
	if err != nil {
		// Advisory context only; the snapshot is the perception contract.
		uc.logger.Debug("Page text unavailable", "step", step, "error", err)
		pageText = ""
	}

	return entity.StepContext{
		Step:      step,
		URL:       uc.browser.CurrentURL(),
		Snapshot:  snapshot,
		PageText:  pageText,
		History:   history,
		Remaining: uc.cfg.MaxSteps - step,
	}, nil
}

func (uc *RunGoalUseCase) execute(ctx context.Context, action entity.Action) error {
	switch action.Kind {
	case entity.ActionClick:
		return uc.browser.Click(ctx, action.Target)
	case entity.ActionFill:
		return uc.browser.Fill(ctx, action.Target, action.Text, action.Submit)
	default:
		return fmt.Errorf("unexecutable action %q", action.Kind)
	}
}

func classify(err error) entity.FailureReason {
	switch {
	case errors.Is(err, entity.ErrTargetNotFound):
		return entity.ReasonTargetNotFound
	case errors.Is(err, entity.ErrAmbiguousTarget):
		return entity.ReasonAmbiguousTarget
	default:
		return entity.ReasonActionFailed
	}
}

func (uc *RunGoalUseCase) fatal(step int, err error) (*entity.AgentResult, error) {
	uc.logger.Error("Agent run aborted", "step", step, "error", err)
	return &entity.AgentResult{
		Reason: entity.ReasonFatal,
		Steps:  step,
	}, err
}

// captureScreenshot persists the final page state. Failures are logged and
// swallowed; a missing screenshot never changes the run's outcome.
func (uc *RunGoalUseCase) captureScreenshot(label string) {
	if uc.shots == nil {
		return
	}

	shot, err := uc.browser.Screenshot(context.Background())
	if err != nil {
		uc.logger.Warn("Screenshot failed", "error", err)
		return
	}

	path, err := uc.shots.Save(shot, label)
	if err != nil {
		uc.logger.Warn("Screenshot save failed", "error", err)
		return
	}

	uc.logger.Info("Screenshot saved", "path", path)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
