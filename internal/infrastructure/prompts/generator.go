package prompts

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"gurney/internal/domain/entity"
)

var userPrompt = prompts.PromptTemplate{
	Template: `GOAL: {{.goal}}

Current URL: {{.url}}
{{if .pageText}}
Page text:
{{.pageText}}
{{end}}{{if .history}}
Previous actions:
{{.history}}
{{end}}
Accessibility tree:
{{.tree}}`,
	InputVariables: []string{"goal", "url", "pageText", "history", "tree"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

// BuildUserPrompt assembles the per-step user message from the goal and the
// step context: current URL, rendered snapshot and the action history so the
// model can see its own failures and re-plan.
func BuildUserPrompt(goal string, stepCtx entity.StepContext) (string, error) {
	out, err := userPrompt.Format(map[string]any{
		"goal":     goal,
		"url":      stepCtx.URL,
		"pageText": stepCtx.PageText,
		"history":  RenderHistory(stepCtx.History),
		"tree":     RenderSnapshot(stepCtx.Snapshot),
	})
	if err != nil {
		return "", fmt.Errorf("format user prompt: %w", err)
	}
	return out, nil
}

// RenderHistory renders executed actions and their outcomes, one line per
// step, oldest first.
func RenderHistory(history []entity.Outcome) string {
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history))
	for _, o := range history {
		desc := o.Action.String()
		if o.Action.Kind == "" {
			desc = "unparseable response"
		}

		status := "ok"
		if !o.OK {
			status = fmt.Sprintf("FAILED (%s: %s)", o.Reason, o.Detail)
		}

		lines = append(lines, fmt.Sprintf("step %d: %s -> %s", o.Step+1, desc, status))
	}
	return strings.Join(lines, "\n")
}
