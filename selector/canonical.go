package selector

import (
	"fmt"
	"strconv"
	"strings"
)

// aliases maps alternative spellings to canonical elementary names.
var aliases = map[string]string{
	"uint":    "uint256",
	"int":     "int256",
	"u8":      "uint8",
	"u16":     "uint16",
	"u32":     "uint32",
	"u64":     "uint64",
	"u128":    "uint128",
	"u256":    "uint256",
	"i8":      "int8",
	"i16":     "int16",
	"i32":     "int32",
	"i64":     "int64",
	"i128":    "int128",
	"i256":    "int256",
	"byte":    "bytes1",
	"Address": "address",
	"String":  "string",
	"Bytes":   "bytes",
	"Hash":    "bytes32",
	"Bool":    "bool",
}

// TypeNode is a parsed argument type. Tuples carry Elems; Dims holds array
// suffixes in canonical order ("" for a dynamic array).
type TypeNode struct {
	Base  string
	Elems []*TypeNode
	Dims  []string
}

// IsTuple reports whether the node is a tuple, ignoring array dimensions.
func (n *TypeNode) IsTuple() bool {
	return n.Base == ""
}

// Canonical renders the node's canonical name.
func (n *TypeNode) Canonical() string {
	var sb strings.Builder
	if n.IsTuple() {
		sb.WriteByte('(')
		for i, e := range n.Elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(e.Canonical())
		}
		sb.WriteByte(')')
	} else {
		sb.WriteString(n.Base)
	}
	sb.WriteString(n.dimsSuffix())
	return sb.String()
}

func (n *TypeNode) dimsSuffix() string {
	var sb strings.Builder
	for _, d := range n.Dims {
		sb.WriteByte('[')
		sb.WriteString(d)
		sb.WriteByte(']')
	}
	return sb.String()
}

// ParseType parses a type expression. Accepted forms:
//
//	uint256, u128, Address, pkg.Address, Bytes32
//	(uint256,address)        tuple
//	uint8[], uint8[2][]      canonical array suffixes
//	[]uint8, [2][]uint8      prefix array notation
func ParseType(expr string) (*TypeNode, error) {
	p := &parser{src: strings.TrimSpace(expr)}
	n, err := p.parseType()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidType, expr, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: %q: trailing input at %d", ErrInvalidType, expr, p.pos)
	}
	return n, nil
}

// CanonicalType returns the canonical name of a type expression.
func CanonicalType(expr string) (string, error) {
	n, err := ParseType(expr)
	if err != nil {
		return "", err
	}
	return n.Canonical(), nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseType() (*TypeNode, error) {
	p.skipSpace()

	// prefix dimensions apply outermost first, so they become suffixes in
	// reverse order: [2][]T == T[][2]
	var prefix []string
	for p.peek() == '[' {
		d, err := p.parseDim()
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, d)
		p.skipSpace()
	}

	var node *TypeNode
	if p.peek() == '(' {
		p.pos++
		node = &TypeNode{}
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
		} else {
			for {
				elem, err := p.parseType()
				if err != nil {
					return nil, err
				}
				node.Elems = append(node.Elems, elem)
				p.skipSpace()
				c := p.peek()
				p.pos++
				if c == ')' {
					break
				}
				if c != ',' {
					return nil, fmt.Errorf("expected ',' or ')' at %d", p.pos-1)
				}
			}
		}
	} else {
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		node = &TypeNode{Base: name}
	}

	for {
		p.skipSpace()
		if p.peek() != '[' {
			break
		}
		d, err := p.parseDim()
		if err != nil {
			return nil, err
		}
		node.Dims = append(node.Dims, d)
	}
	for i := len(prefix) - 1; i >= 0; i-- {
		node.Dims = append(node.Dims, prefix[i])
	}
	return node, nil
}

func (p *parser) parseDim() (string, error) {
	p.pos++ // '['
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	digits := p.src[start:p.pos]
	if p.peek() != ']' {
		return "", fmt.Errorf("expected ']' at %d", p.pos)
	}
	p.pos++
	if digits == "" {
		return "", nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n == 0 {
		return "", fmt.Errorf("invalid array length %q", digits)
	}
	return strconv.Itoa(n), nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *parser) parseIdent() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	raw := p.src[start:p.pos]
	if raw == "" {
		return "", fmt.Errorf("expected type name at %d", start)
	}
	name := unqualify(raw)
	if alias, ok := aliases[name]; ok {
		name = alias
	} else if rest, ok := strings.CutPrefix(name, "Bytes"); ok && rest != "" {
		name = "bytes" + rest
	}
	if !isElementary(name) {
		return "", fmt.Errorf("unknown type %q", raw)
	}
	return name, nil
}

// unqualify strips any module or package path.
func unqualify(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func isElementary(name string) bool {
	switch name {
	case "address", "bool", "string", "bytes":
		return true
	}
	if rest, ok := strings.CutPrefix(name, "bytes"); ok {
		n, err := strconv.Atoi(rest)
		return err == nil && n >= 1 && n <= 32 && strconv.Itoa(n) == rest
	}
	rest, ok := strings.CutPrefix(name, "uint")
	if !ok {
		rest, ok = strings.CutPrefix(name, "int")
	}
	if ok {
		n, err := strconv.Atoi(rest)
		return err == nil && n >= 8 && n <= 256 && n%8 == 0 && strconv.Itoa(n) == rest
	}
	return false
}
