// internal/gridtest/node.go
//
// Package gridtest provides an in-memory DOM fake implementing the page
// contract, so harness logic can be tested without a browser. Widget
// behavior (expand toggles, async loads, editors) is simulated through
// per-node event hooks.
package gridtest

import (
	"strings"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// Node is one fake DOM element.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node

	// Hidden marks the node (and its subtree) as not visible.
	Hidden bool
	// Value and Checked model live form-control state.
	Value   string
	Checked bool
	// Box overrides the synthetic bounding box.
	Box *page.Box

	// Event hooks. Click and key events bubble to the nearest ancestor
	// carrying a handler; fill fires on the node itself. Hooks run under
	// the page lock, so they may mutate the tree directly but must not
	// call Page.Update.
	OnClick    func(n *Node)
	OnDblClick func(n *Node)
	OnFill     func(n *Node, value string)
	OnKey      func(n *Node, key string)

	parent *Node
}

// E builds an element node and adopts its children.
func E(tag string, attrs map[string]string, children ...*Node) *Node {
	if attrs == nil {
		attrs = map[string]string{}
	}
	n := &Node{Tag: tag, Attrs: attrs}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// Append adopts a child node.
func (n *Node) Append(c *Node) *Node {
	c.parent = n
	n.Children = append(n.Children, c)
	return n
}

// Remove detaches the node from its parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Attr returns an attribute value, or "" when absent.
func (n *Node) Attr(name string) string { return n.Attrs[name] }

// SetAttr sets an attribute value.
func (n *Node) SetAttr(name, value string) { n.Attrs[name] = value }

func (n *Node) classes() []string { return strings.Fields(n.Attrs["class"]) }

// HasClass reports whether the node carries the class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class if absent.
func (n *Node) AddClass(class string) {
	if n.HasClass(class) {
		return
	}
	cs := append(n.classes(), class)
	n.Attrs["class"] = strings.Join(cs, " ")
}

// RemoveClass removes a class if present.
func (n *Node) RemoveClass(class string) {
	cs := n.classes()
	out := cs[:0]
	for _, c := range cs {
		if c != class {
			out = append(out, c)
		}
	}
	n.Attrs["class"] = strings.Join(out, " ")
}

// textContent concatenates the node's own text and its subtree's.
func (n *Node) textContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n.Text != "" {
		sb.WriteString(n.Text)
		sb.WriteString(" ")
	}
	for _, c := range n.Children {
		c.appendText(sb)
	}
}

// visible reports whether the node and every ancestor are unhidden.
func (n *Node) visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Hidden {
			return false
		}
	}
	return true
}

// descendants returns the subtree below the node in document (pre-)order,
// excluding the node itself.
func (n *Node) descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// bubble finds the nearest ancestor-or-self for which pick returns a
// handler.
func bubble[T any](n *Node, pick func(*Node) *T) (*Node, *T) {
	for cur := n; cur != nil; cur = cur.parent {
		if h := pick(cur); h != nil {
			return cur, h
		}
	}
	return nil, nil
}
