// internal/gridtest/selector.go
package gridtest

import (
	"fmt"
	"strings"
)

// The fake supports the selector subset the harness emits: tag, #id,
// .class, [attr] and [attr="value"] conditions, :not(<simple>), the
// descendant combinator, and comma-separated groups.

type attrCond struct {
	name  string
	value string
	exact bool
}

// compound is one whitespace-delimited selector segment, e.g.
// `div.ag-row[row-index="3"]:not(.ag-hidden)`.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrCond
	nots    []compound
}

func (c compound) matches(n *Node) bool {
	if c.tag != "" && !strings.EqualFold(c.tag, n.Tag) {
		return false
	}
	if c.id != "" && n.Attr("id") != c.id {
		return false
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, present := n.Attrs[a.name]
		if !present {
			return false
		}
		if a.exact && v != a.value {
			return false
		}
	}
	for _, not := range c.nots {
		if not.matches(n) {
			return false
		}
	}
	return true
}

// chain is a descendant-combinator sequence of compounds.
type chain []compound

// matches reports whether n matches the last compound with ancestors
// satisfying the rest of the chain, innermost first.
func (ch chain) matches(n *Node) bool {
	if len(ch) == 0 || !ch[len(ch)-1].matches(n) {
		return false
	}
	cur := n.parent
	for i := len(ch) - 2; i >= 0; i-- {
		for {
			if cur == nil {
				return false
			}
			if ch[i].matches(cur) {
				cur = cur.parent
				break
			}
			cur = cur.parent
		}
	}
	return true
}

// query returns the descendants of scope matching any group of the selector
// list, in document order.
func query(scope *Node, selector string) ([]*Node, error) {
	groups, err := parseSelectorList(selector)
	if err != nil {
		return nil, err
	}

	var out []*Node
	for _, d := range scope.descendants() {
		for _, g := range groups {
			if g.matches(d) {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func parseSelectorList(s string) ([]chain, error) {
	var groups []chain
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("gridtest: empty selector group in %q", s)
		}
		var ch chain
		for _, tok := range splitSegments(part) {
			c, err := parseCompound(tok)
			if err != nil {
				return nil, err
			}
			ch = append(ch, c)
		}
		groups = append(groups, ch)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("gridtest: empty selector %q", s)
	}
	return groups, nil
}

// splitSegments splits a selector group into its descendant-combinator
// segments. Whitespace inside brackets or quoted attribute values does not
// split, so selectors like `[row-id="a b"]` stay one segment.
func splitSegments(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	escaped := false
	start := -1
	for i, r := range s {
		if inQuote {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inQuote = false
			}
			continue
		}
		if (r == ' ' || r == '\t') && depth == 0 {
			if start >= 0 {
				parts = append(parts, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
		switch r {
		case '"':
			inQuote = true
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}

// splitTopLevel splits on sep, ignoring separators inside brackets or
// quotes so attribute values survive.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i, r := range s {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case r == '"':
			inQuote = true
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			depth--
		case r == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func parseCompound(tok string) (compound, error) {
	var c compound
	i := 0

	name := func() string {
		start := i
		for i < len(tok) && isNameChar(tok[i]) {
			i++
		}
		return tok[start:i]
	}

	if i < len(tok) && isNameChar(tok[i]) || i < len(tok) && tok[i] == '*' {
		if tok[i] == '*' {
			i++
		} else {
			c.tag = name()
		}
	}

	for i < len(tok) {
		switch tok[i] {
		case '.':
			i++
			cls := name()
			if cls == "" {
				return c, fmt.Errorf("gridtest: bad class in %q", tok)
			}
			c.classes = append(c.classes, cls)
		case '#':
			i++
			id := name()
			if id == "" {
				return c, fmt.Errorf("gridtest: bad id in %q", tok)
			}
			c.id = id
		case '[':
			i++
			cond, err := parseAttrCond(tok, &i)
			if err != nil {
				return c, err
			}
			c.attrs = append(c.attrs, cond)
		case ':':
			if !strings.HasPrefix(tok[i:], ":not(") {
				return c, fmt.Errorf("gridtest: unsupported pseudo-class in %q", tok)
			}
			i += len(":not(")
			start := i
			depth := 1
			for i < len(tok) && depth > 0 {
				switch tok[i] {
				case '(':
					depth++
				case ')':
					depth--
				}
				i++
			}
			if depth != 0 {
				return c, fmt.Errorf("gridtest: unbalanced :not in %q", tok)
			}
			inner, err := parseCompound(tok[start : i-1])
			if err != nil {
				return c, err
			}
			c.nots = append(c.nots, inner)
		default:
			return c, fmt.Errorf("gridtest: unexpected %q in selector %q", tok[i], tok)
		}
	}
	return c, nil
}

func parseAttrCond(tok string, i *int) (attrCond, error) {
	var cond attrCond
	start := *i
	for *i < len(tok) && isNameChar(tok[*i]) {
		*i++
	}
	cond.name = tok[start:*i]
	if cond.name == "" {
		return cond, fmt.Errorf("gridtest: bad attribute selector in %q", tok)
	}

	if *i < len(tok) && tok[*i] == '=' {
		*i++
		cond.exact = true
		var sb strings.Builder
		if *i < len(tok) && tok[*i] == '"' {
			*i++
			for *i < len(tok) && tok[*i] != '"' {
				if tok[*i] == '\\' && *i+1 < len(tok) {
					*i++
				}
				sb.WriteByte(tok[*i])
				*i++
			}
			if *i >= len(tok) {
				return cond, fmt.Errorf("gridtest: unterminated attribute value in %q", tok)
			}
			*i++ // closing quote
		} else {
			for *i < len(tok) && tok[*i] != ']' {
				sb.WriteByte(tok[*i])
				*i++
			}
		}
		cond.value = sb.String()
	}

	if *i >= len(tok) || tok[*i] != ']' {
		return cond, fmt.Errorf("gridtest: unterminated attribute selector in %q", tok)
	}
	*i++ // closing bracket
	return cond, nil
}

func isNameChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b == '-' || b == '_'
}
