package rod

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"gurney/internal/domain/entity"
)

// A strategy pairs a targeting predicate with its resolver. Strategies are
// tried in fixed priority order; the first applicable one decides the
// outcome, there is no falling through to the next on failure.
type strategy struct {
	name    string
	applies func(entity.Target) bool
	resolve func(b *BrowserAdapter, t entity.Target) ([]*rod.Element, error)
}

var clickStrategies = []strategy{
	{"role+name", hasRoleName, byRoleName},
	{"text", hasText, byText},
}

var fillStrategies = []strategy{
	{"role+name", hasRoleName, byRoleName},
	{"label", hasLabel, byLabel},
	{"placeholder", hasPlaceholder, byPlaceholder},
}

func hasRoleName(t entity.Target) bool    { return t.Role != "" && t.Name != "" }
func hasText(t entity.Target) bool        { return t.Text != "" }
func hasLabel(t entity.Target) bool       { return t.Label != "" }
func hasPlaceholder(t entity.Target) bool { return t.Placeholder != "" }

// resolve maps a target to exactly one element. Zero matches fail with
// ErrTargetNotFound, two or more with ErrAmbiguousTarget; picking an
// arbitrary match among duplicates would hide page-structure bugs.
func (b *BrowserAdapter) resolve(strategies []strategy, t entity.Target) (*rod.Element, error) {
	for _, s := range strategies {
		if !s.applies(t) {
			continue
		}

		els, err := s.resolve(b, t)
		if err != nil {
			return nil, fmt.Errorf("%s resolution: %w", s.name, err)
		}
		return requireOne(els, t)
	}
	return nil, fmt.Errorf("%w: no targeting strategy for %s", entity.ErrTargetNotFound, t)
}

func requireOne(els []*rod.Element, t entity.Target) (*rod.Element, error) {
	switch len(els) {
	case 0:
		return nil, fmt.Errorf("%w: no element matches %s", entity.ErrTargetNotFound, t)
	case 1:
		return els[0], nil
	default:
		return nil, fmt.Errorf("%w: %d elements match %s", entity.ErrAmbiguousTarget, len(els), t)
	}
}

// byRoleName queries the accessibility tree for nodes with the given role
// and accessible name, then resolves them to live element handles.
func byRoleName(b *BrowserAdapter, t entity.Target) ([]*rod.Element, error) {
	res, err := proto.AccessibilityQueryAXTree{
		AccessibleName: t.Name,
		Role:           t.Role,
	}.Call(b.page)
	if err != nil {
		return nil, fmt.Errorf("accessibility query: %w", err)
	}

	var els []*rod.Element
	for _, n := range res.Nodes {
		if n.Ignored || n.BackendDOMNodeID == 0 {
			continue
		}
		if axString(n.Name) != t.Name {
			continue
		}

		el, err := b.elementFromBackendID(n.BackendDOMNodeID)
		if err != nil {
			// AX node without a live DOM counterpart (detached between
			// snapshot and resolve); not a match.
			continue
		}
		els = append(els, el)
	}
	return els, nil
}

// byText matches elements whose trimmed visible text equals the target
// text, keeping only the innermost match of each subtree so a button and
// its inner span do not count as duplicates.
const jsByText = `(text) => {
	const all = Array.from(document.querySelectorAll('*'));
	const matches = all.filter(el => (el.innerText || '').trim() === text);
	return matches.filter(el => !matches.some(other => other !== el && el.contains(other)));
}`

func byText(b *BrowserAdapter, t entity.Target) ([]*rod.Element, error) {
	els, err := b.page.ElementsByJS(rod.Eval(jsByText, t.Text))
	if err != nil {
		return nil, fmt.Errorf("text query: %w", err)
	}
	return els, nil
}

const jsByLabel = `(label) => {
	const out = [];
	for (const l of document.querySelectorAll('label')) {
		if ((l.innerText || '').trim() !== label) continue;
		if (l.control) out.push(l.control);
	}
	return out;
}`

func byLabel(b *BrowserAdapter, t entity.Target) ([]*rod.Element, error) {
	els, err := b.page.ElementsByJS(rod.Eval(jsByLabel, t.Label))
	if err != nil {
		return nil, fmt.Errorf("label query: %w", err)
	}
	return els, nil
}

const jsByPlaceholder = `(placeholder) =>
	Array.from(document.querySelectorAll('input, textarea'))
		.filter(el => el.placeholder === placeholder)`

func byPlaceholder(b *BrowserAdapter, t entity.Target) ([]*rod.Element, error) {
	els, err := b.page.ElementsByJS(rod.Eval(jsByPlaceholder, t.Placeholder))
	if err != nil {
		return nil, fmt.Errorf("placeholder query: %w", err)
	}
	return els, nil
}

func (b *BrowserAdapter) elementFromBackendID(id proto.DOMBackendNodeID) (*rod.Element, error) {
	obj, err := proto.DOMResolveNode{BackendNodeID: id}.Call(b.page)
	if err != nil {
		return nil, err
	}
	return b.page.ElementFromObject(obj.Object)
}
