package rod

import (
	"github.com/go-rod/rod/lib/proto"

	"gurney/internal/domain/entity"
)

// fromAXTree converts a CDP accessibility tree into a Snapshot. Traversal
// follows ChildIDs depth-first from the roots, so the order is stable for
// an unchanged page regardless of how CDP serialized the node list. Depth
// counts kept ancestors only, keeping indentation meaningful after
// decorative nodes are dropped.
func fromAXTree(nodes []*proto.AccessibilityAXNode) entity.Snapshot {
	byID := make(map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, len(nodes))
	referenced := make(map[proto.AccessibilityAXNodeID]bool)
	for _, n := range nodes {
		byID[n.NodeID] = n
		for _, c := range n.ChildIDs {
			referenced[c] = true
		}
	}

	snap := entity.Snapshot{}

	var walk func(id proto.AccessibilityAXNodeID, depth int)
	walk = func(id proto.AccessibilityAXNodeID, depth int) {
		n := byID[id]
		if n == nil {
			return
		}

		next := depth
		if !n.Ignored {
			if node, ok := toNode(n, depth); ok {
				snap = append(snap, node)
				next = depth + 1
			}
		}

		for _, c := range n.ChildIDs {
			walk(c, next)
		}
	}

	for _, n := range nodes {
		if !referenced[n.NodeID] {
			walk(n.NodeID, 0)
		}
	}

	return snap
}

func toNode(n *proto.AccessibilityAXNode, depth int) (entity.Node, bool) {
	role := axString(n.Role)
	if !entity.KeepInSnapshot(role) {
		return entity.Node{}, false
	}

	node := entity.Node{
		Role:  role,
		Name:  axString(n.Name),
		Depth: depth,
	}

	for _, p := range n.Properties {
		switch p.Name {
		case proto.AccessibilityAXPropertyNameChecked:
			node.Checked = axBool(p.Value)
		case proto.AccessibilityAXPropertyNameDisabled:
			node.Disabled = axBool(p.Value)
		case proto.AccessibilityAXPropertyNameFocused:
			node.Focused = axBool(p.Value)
		}
	}

	return node, true
}

func axString(v *proto.AccessibilityAXValue) string {
	if v == nil {
		return ""
	}
	return v.Value.Str()
}

// axBool handles both boolean AX values and tristates like checked, which
// CDP reports as "true"/"false"/"mixed" strings.
func axBool(v *proto.AccessibilityAXValue) bool {
	if v == nil {
		return false
	}
	switch val := v.Value.Val().(type) {
	case bool:
		return val
	case string:
		return val == "true"
	default:
		return false
	}
}
