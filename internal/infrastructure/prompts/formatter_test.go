package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gurney/internal/domain/entity"
)

func TestRenderSnapshot_EmptyPage(t *testing.T) {
	assert.Equal(t, "", RenderSnapshot(entity.Snapshot{}))
	assert.Equal(t, "", RenderSnapshot(nil))
}

func TestRenderSnapshot_Format(t *testing.T) {
	s := entity.Snapshot{
		{Role: "heading", Name: "Welcome", Depth: 0},
		{Role: "link", Name: "Login", Depth: 1},
		{Role: "checkbox", Name: "Remember me", Depth: 1, Checked: true},
		{Role: "button", Name: "Submit", Depth: 2, Disabled: true, Focused: true},
		{Role: "textbox", Depth: 1},
	}

	want := `- heading "Welcome"
  - link "Login"
  - checkbox "Remember me" [checked]
    - button "Submit" [disabled] [focused]
  - textbox
`
	assert.Equal(t, want, RenderSnapshot(s))
}

func TestRenderSnapshot_OmitsDecorativeRoles(t *testing.T) {
	s := entity.Snapshot{
		{Role: "generic", Depth: 0},
		{Role: "link", Name: "Home", Depth: 0},
		{Role: "StaticText", Name: "lorem ipsum", Depth: 1},
	}

	out := RenderSnapshot(s)
	assert.Equal(t, "- link \"Home\"\n", out)
}

func TestRenderSnapshot_Deterministic(t *testing.T) {
	s := entity.Snapshot{
		{Role: "link", Name: "a", Depth: 0},
		{Role: "button", Name: "b", Depth: 0, Checked: true, Focused: true},
	}
	assert.Equal(t, RenderSnapshot(s), RenderSnapshot(s))
}

func TestRenderSnapshot_Truncates(t *testing.T) {
	var s entity.Snapshot
	for i := 0; i < 5000; i++ {
		s = append(s, entity.Node{Role: "link", Name: strings.Repeat("x", 40)})
	}

	out := RenderSnapshot(s)
	assert.True(t, strings.HasSuffix(out, truncationMarker))
	assert.LessOrEqual(t, len(out), MaxSnapshotChars+len(truncationMarker))
}
