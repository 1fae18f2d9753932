package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction_ClickByRoleName(t *testing.T) {
	raw := `{"action": "click", "target": {"role": "link", "name": "Login"}, "reason": "log in first"}`

	action, err := ParseAction(raw)
	require.NoError(t, err)

	assert.Equal(t, ActionClick, action.Kind)
	assert.Equal(t, "link", action.Target.Role)
	assert.Equal(t, "Login", action.Target.Name)
	assert.Equal(t, "log in first", action.Reason)
}

func TestParseAction_ClickByText(t *testing.T) {
	action, err := ParseAction(`{"action": "click", "target": {"text": "Read more"}}`)
	require.NoError(t, err)

	assert.Equal(t, ActionClick, action.Kind)
	assert.Equal(t, "Read more", action.Target.Text)
	assert.Empty(t, action.Target.Role)
}

func TestParseAction_FillByLabelWithSubmit(t *testing.T) {
	raw := `{"action": "fill", "target": {"label": "Email"}, "text": "a@b.c", "submit": true}`

	action, err := ParseAction(raw)
	require.NoError(t, err)

	assert.Equal(t, ActionFill, action.Kind)
	assert.Equal(t, "Email", action.Target.Label)
	assert.Equal(t, "a@b.c", action.Text)
	assert.True(t, action.Submit)
}

func TestParseAction_FillEmptyValueIsAllowed(t *testing.T) {
	action, err := ParseAction(`{"action": "fill", "target": {"placeholder": "Search"}, "text": ""}`)
	require.NoError(t, err)

	assert.Equal(t, "", action.Text)
	assert.Equal(t, "Search", action.Target.Placeholder)
}

func TestParseAction_Answer(t *testing.T) {
	action, err := ParseAction(`{"action": "answer", "text": "$42.00", "reason": "price found"}`)
	require.NoError(t, err)

	assert.Equal(t, ActionAnswer, action.Kind)
	assert.Equal(t, "$42.00", action.Text)
}

func TestParseAction_ToleratesMarkdownFences(t *testing.T) {
	raw := "Here is my action:\n```json\n{\"action\": \"click\", \"target\": {\"text\": \"Next\"}}\n```\n"

	action, err := ParseAction(raw)
	require.NoError(t, err)
	assert.Equal(t, "Next", action.Target.Text)
}

func TestParseAction_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no JSON at all", "I will click the login link."},
		{"unknown action", `{"action": "hover", "target": {"text": "x"}}`},
		{"missing action", `{"target": {"text": "x"}}`},
		{"unknown top-level field", `{"action": "click", "target": {"text": "x"}, "selector": "#a"}`},
		{"unknown target field", `{"action": "click", "target": {"css": "#a"}}`},
		{"click without target", `{"action": "click"}`},
		{"click mixes role+name and text", `{"action": "click", "target": {"role": "button", "name": "Go", "text": "Go"}}`},
		{"click by label", `{"action": "click", "target": {"label": "Email"}}`},
		{"click with text value", `{"action": "click", "target": {"text": "Go"}, "text": "v"}`},
		{"role without name", `{"action": "click", "target": {"role": "button"}}`},
		{"name without role", `{"action": "click", "target": {"name": "Go"}}`},
		{"empty role", `{"action": "click", "target": {"role": "", "name": "Go"}}`},
		{"fill without value", `{"action": "fill", "target": {"label": "Email"}}`},
		{"fill by text", `{"action": "fill", "target": {"text": "Email"}, "text": "v"}`},
		{"fill mixes label and placeholder", `{"action": "fill", "target": {"label": "Email", "placeholder": "Email"}, "text": "v"}`},
		{"answer with target", `{"action": "answer", "target": {"text": "x"}, "text": "done"}`},
		{"answer without text", `{"action": "answer"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAction(tc.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedAction)
		})
	}
}

// Parsing the canonical re-serialization of a parsed action yields the same
// action.
func TestParseAction_RoundTrip(t *testing.T) {
	raws := []string{
		`{"action": "click", "target": {"role": "link", "name": "Login"}, "reason": "r"}`,
		`{"action": "click", "target": {"text": "Read more"}}`,
		`{"action": "fill", "target": {"label": "Email"}, "text": "a@b.c", "submit": true}`,
		`{"action": "fill", "target": {"placeholder": "Search"}, "text": ""}`,
		`{"action": "answer", "text": "$42.00"}`,
	}

	for _, raw := range raws {
		parsed, err := ParseAction(raw)
		require.NoError(t, err)

		serialized, err := json.Marshal(parsed)
		require.NoError(t, err)

		reparsed, err := ParseAction(string(serialized))
		require.NoError(t, err)

		assert.Equal(t, parsed, reparsed, "round trip changed the action: %s", raw)
	}
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, `role="button" name="Submit"`, Target{Role: "button", Name: "Submit"}.String())
	assert.Equal(t, `text="Read more"`, Target{Text: "Read more"}.String())
	assert.Equal(t, "<empty target>", Target{}.String())
}
