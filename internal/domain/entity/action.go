package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type ActionKind string

const (
	ActionClick  ActionKind = "click"
	ActionFill   ActionKind = "fill"
	ActionAnswer ActionKind = "answer"
)

// Target tells the resolver how to find an element. A well-formed target
// carries exactly one strategy: role+name, text, label or placeholder.
type Target struct {
	Role        string
	Name        string
	Text        string
	Label       string
	Placeholder string
}

func (t Target) IsZero() bool {
	return t == Target{}
}

func (t Target) String() string {
	switch {
	case t.Role != "":
		return fmt.Sprintf("role=%q name=%q", t.Role, t.Name)
	case t.Text != "":
		return fmt.Sprintf("text=%q", t.Text)
	case t.Label != "":
		return fmt.Sprintf("label=%q", t.Label)
	case t.Placeholder != "":
		return fmt.Sprintf("placeholder=%q", t.Placeholder)
	default:
		return "<empty target>"
	}
}

// Action is one decision of the model: click an element, fill a field or
// deliver the final answer.
type Action struct {
	Kind   ActionKind
	Target Target
	Text   string // fill value or final answer
	Submit bool   // fill only: press Enter after filling
	Reason string
}

func (a Action) String() string {
	switch a.Kind {
	case ActionAnswer:
		return "answer"
	default:
		return fmt.Sprintf("%s %s", a.Kind, a.Target)
	}
}

// Wire format, mirroring the system prompt contract:
//
//	{"action":"click","target":{"role":"link","name":"Login"},"reason":"..."}
//	{"action":"fill","target":{"label":"Email"},"text":"a@b.c","submit":true,"reason":"..."}
//	{"action":"answer","text":"$42.00","reason":"..."}
type actionWire struct {
	Action string      `json:"action"`
	Target *targetWire `json:"target,omitempty"`
	Text   *string     `json:"text,omitempty"`
	Submit *bool       `json:"submit,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

type targetWire struct {
	Role        *string `json:"role,omitempty"`
	Name        *string `json:"name,omitempty"`
	Text        *string `json:"text,omitempty"`
	Label       *string `json:"label,omitempty"`
	Placeholder *string `json:"placeholder,omitempty"`
}

// ParseAction parses a raw model response into an Action. The response must
// contain a single JSON object; prose or markdown fences around it are
// tolerated, anything else is not. Unknown actions, unknown fields and
// ambiguous targeting all fail with ErrMalformedAction; the parser never
// guesses what the model meant.
func ParseAction(raw string) (Action, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return Action{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var wire actionWire
	if err := dec.Decode(&wire); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}

	switch ActionKind(wire.Action) {
	case ActionClick:
		return parseClick(wire)
	case ActionFill:
		return parseFill(wire)
	case ActionAnswer:
		return parseAnswer(wire)
	case "":
		return Action{}, fmt.Errorf("%w: missing \"action\" field", ErrMalformedAction)
	default:
		return Action{}, fmt.Errorf("%w: unknown action %q", ErrMalformedAction, wire.Action)
	}
}

func parseClick(wire actionWire) (Action, error) {
	if wire.Text != nil {
		return Action{}, fmt.Errorf("%w: click does not take a \"text\" field", ErrMalformedAction)
	}
	if wire.Submit != nil {
		return Action{}, fmt.Errorf("%w: click does not take a \"submit\" field", ErrMalformedAction)
	}
	target, err := parseTarget(wire.Target, "click", []string{"role+name", "text"})
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: ActionClick, Target: target, Reason: wire.Reason}, nil
}

func parseFill(wire actionWire) (Action, error) {
	if wire.Text == nil {
		return Action{}, fmt.Errorf("%w: fill requires a \"text\" value", ErrMalformedAction)
	}
	target, err := parseTarget(wire.Target, "fill", []string{"role+name", "label", "placeholder"})
	if err != nil {
		return Action{}, err
	}
	action := Action{Kind: ActionFill, Target: target, Text: *wire.Text, Reason: wire.Reason}
	if wire.Submit != nil {
		action.Submit = *wire.Submit
	}
	return action, nil
}

func parseAnswer(wire actionWire) (Action, error) {
	if wire.Target != nil {
		return Action{}, fmt.Errorf("%w: answer does not take a target", ErrMalformedAction)
	}
	if wire.Submit != nil {
		return Action{}, fmt.Errorf("%w: answer does not take a \"submit\" field", ErrMalformedAction)
	}
	if wire.Text == nil {
		return Action{}, fmt.Errorf("%w: answer requires a \"text\" value", ErrMalformedAction)
	}
	return Action{Kind: ActionAnswer, Text: *wire.Text, Reason: wire.Reason}, nil
}

// parseTarget validates that the target carries exactly one of the strategies
// allowed for the action. Role and name are one strategy and must appear
// together.
func parseTarget(wire *targetWire, kind string, allowed []string) (Target, error) {
	if wire == nil {
		return Target{}, fmt.Errorf("%w: %s requires a target", ErrMalformedAction, kind)
	}

	if (wire.Role == nil) != (wire.Name == nil) {
		return Target{}, fmt.Errorf("%w: %s target: \"role\" and \"name\" must be used together", ErrMalformedAction, kind)
	}

	present := []struct {
		strategy string
		ok       bool
	}{
		{"role+name", wire.Role != nil},
		{"text", wire.Text != nil},
		{"label", wire.Label != nil},
		{"placeholder", wire.Placeholder != nil},
	}

	var used []string
	for _, p := range present {
		if !p.ok {
			continue
		}
		strategy := p.strategy
		if !contains(allowed, strategy) {
			return Target{}, fmt.Errorf("%w: %s target does not accept %s", ErrMalformedAction, kind, strategy)
		}
		used = append(used, strategy)
	}

	switch len(used) {
	case 0:
		return Target{}, fmt.Errorf("%w: %s target must use one of: %s", ErrMalformedAction, kind, strings.Join(allowed, ", "))
	case 1:
	default:
		return Target{}, fmt.Errorf("%w: %s target mixes targeting strategies", ErrMalformedAction, kind)
	}

	target := Target{
		Role:        deref(wire.Role),
		Name:        deref(wire.Name),
		Text:        deref(wire.Text),
		Label:       deref(wire.Label),
		Placeholder: deref(wire.Placeholder),
	}

	switch {
	case wire.Role != nil && (target.Role == "" || target.Name == ""):
		return Target{}, fmt.Errorf("%w: %s target: empty role or name", ErrMalformedAction, kind)
	case wire.Text != nil && target.Text == "":
		return Target{}, fmt.Errorf("%w: %s target: empty text", ErrMalformedAction, kind)
	case wire.Label != nil && target.Label == "":
		return Target{}, fmt.Errorf("%w: %s target: empty label", ErrMalformedAction, kind)
	case wire.Placeholder != nil && target.Placeholder == "":
		return Target{}, fmt.Errorf("%w: %s target: empty placeholder", ErrMalformedAction, kind)
	}

	return target, nil
}

// MarshalJSON renders the canonical wire form of the action. Parsing the
// result yields the same Action back.
func (a Action) MarshalJSON() ([]byte, error) {
	wire := actionWire{
		Action: string(a.Kind),
		Reason: a.Reason,
	}

	switch a.Kind {
	case ActionClick:
		wire.Target = a.Target.wire()
	case ActionFill:
		wire.Target = a.Target.wire()
		wire.Text = strPtr(a.Text)
		if a.Submit {
			wire.Submit = boolPtr(true)
		}
	case ActionAnswer:
		wire.Text = strPtr(a.Text)
	}

	return json.Marshal(wire)
}

func (t Target) wire() *targetWire {
	w := &targetWire{}
	if t.Role != "" {
		w.Role = strPtr(t.Role)
		w.Name = strPtr(t.Name)
	}
	if t.Text != "" {
		w.Text = strPtr(t.Text)
	}
	if t.Label != "" {
		w.Label = strPtr(t.Label)
	}
	if t.Placeholder != "" {
		w.Placeholder = strPtr(t.Placeholder)
	}
	return w
}

// extractJSONObject cuts the response down to the outermost JSON object.
// Models wrap their JSON in markdown fences often enough that rejecting the
// wrapping outright would burn steps for nothing.
func extractJSONObject(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedAction)
	}
	return []byte(raw[start : end+1]), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
