package prompts

import (
	"fmt"
	"strings"

	"gurney/internal/domain/entity"
)

// MaxSnapshotChars bounds the rendered tree so a single page cannot blow up
// the prompt.
const MaxSnapshotChars = 48_000

const truncationMarker = "\n... [truncated]"

// RenderSnapshot turns an accessibility snapshot into a line-oriented text
// rendering, one interactive node per line in depth-first order. The output
// is byte-identical across calls for an unchanged snapshot; decorative nodes
// are omitted. An empty page renders to the empty string.
func RenderSnapshot(s entity.Snapshot) string {
	var b strings.Builder
	for _, n := range s {
		if !entity.KeepInSnapshot(n.Role) {
			continue
		}
		b.WriteString(strings.Repeat("  ", n.Depth))
		b.WriteString("- ")
		b.WriteString(n.Role)
		if n.Name != "" {
			fmt.Fprintf(&b, " %q", n.Name)
		}
		writeStates(&b, n)
		b.WriteByte('\n')
	}

	out := b.String()
	if len(out) > MaxSnapshotChars {
		out = out[:MaxSnapshotChars] + truncationMarker
	}
	return out
}

// writeStates appends state flags in a fixed order so renderings stay
// deterministic.
func writeStates(b *strings.Builder, n entity.Node) {
	if n.Checked {
		b.WriteString(" [checked]")
	}
	if n.Disabled {
		b.WriteString(" [disabled]")
	}
	if n.Focused {
		b.WriteString(" [focused]")
	}
}
