package entity

// Node is one element of an accessibility snapshot: role, accessible name
// and the state flags the model cares about. Snapshot data is read-only and
// discarded after each step.
type Node struct {
	Role     string
	Name     string
	Depth    int
	Checked  bool
	Disabled bool
	Focused  bool
}

// Snapshot is the accessibility tree in depth-first order.
type Snapshot []Node

// interactiveRoles are the accessibility roles worth showing to the model.
// Headings are kept as structural anchors; purely decorative roles
// (generic, StaticText, ...) are dropped to bound prompt size.
var interactiveRoles = map[string]bool{
	"button":     true,
	"checkbox":   true,
	"combobox":   true,
	"heading":    true,
	"link":       true,
	"listbox":    true,
	"menuitem":   true,
	"option":     true,
	"radio":      true,
	"searchbox":  true,
	"slider":     true,
	"spinbutton": true,
	"switch":     true,
	"tab":        true,
	"textbox":    true,
}

// KeepInSnapshot reports whether a node with the given role belongs in the
// rendered snapshot.
func KeepInSnapshot(role string) bool {
	return interactiveRoles[role]
}
