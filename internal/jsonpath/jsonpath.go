// Package jsonpath implements the target expression language for overlay
// actions: a subset of RFC 9535 JSONPath sufficient for OpenAPI Overlay
// v1.0.0 documents, without external dependencies.
//
// Supported syntax:
//
//   - $ (root)
//   - .field or ['field'] (child access)
//   - .* or [*] (wildcard, all children)
//   - [0] (array index; negative counts from the end)
//   - [?(...)] filter predicates:
//     @.field              field exists
//     !@.field             field absent
//     @.a.b                nested existence
//     @.field == value     comparison (==, !=, <, <=, >, >=)
//     @.items[?(@.key)]    nested subquery
//     expr && expr         conjunction
//     expr || expr         alternation (conjunction binds tighter)
//
// A filter predicate tests the current node itself when the node is a
// mapping, and selects passing elements when the node is an array. The
// mapping behavior is what overlay targets rely on: $.paths.*.*[?(!@.security)]
// narrows the set of operation objects to those without a security field.
//
// Not supported:
//   - .. (recursive descent)
//   - [start:end:step] (array slicing)
//   - filter functions like length(), count()
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Path represents a parsed JSONPath expression.
type Path struct {
	raw      string
	segments []Segment
}

// String returns the original JSONPath expression.
func (p *Path) String() string {
	return p.raw
}

// Segment represents a single segment in a JSONPath expression.
type Segment interface {
	// segmentType returns a string identifying the segment type for debugging.
	segmentType() string
}

// RootSegment represents the root selector ($).
type RootSegment struct{}

func (s RootSegment) segmentType() string { return "root" }

// ChildSegment represents a child property selector (.field or ['field']).
type ChildSegment struct {
	Key string
}

func (s ChildSegment) segmentType() string { return "child" }

// WildcardSegment represents a wildcard selector (.* or [*]).
type WildcardSegment struct{}

func (s WildcardSegment) segmentType() string { return "wildcard" }

// IndexSegment represents an array index selector ([n]).
type IndexSegment struct {
	Index int
}

func (s IndexSegment) segmentType() string { return "index" }

// FilterSegment represents a filter selector ([?expr]).
type FilterSegment struct {
	Expr *FilterExpr
}

func (s FilterSegment) segmentType() string { return "filter" }

// FilterExpr is a parsed filter predicate: an OR of conjunction groups.
// The expression holds when any group holds.
type FilterExpr struct {
	Groups []*FilterGroup
}

// FilterGroup is a conjunction of terms joined by &&.
type FilterGroup struct {
	Terms []*FilterTerm
}

// FilterTerm tests one @-relative query against the candidate node.
// Without an operator the term is an existence test; Negated inverts the
// result either way.
type FilterTerm struct {
	Negated  bool
	Steps    []Segment // relative path steps after @ (child/index/wildcard/filter)
	Operator string    // "", ==, !=, <, <=, >, >=
	Value    any       // comparison value (string, int64, float64, bool, nil)
}

// ParseError describes a malformed path expression.
type ParseError struct {
	Expression string
	Position   int
	Message    string
}

// Error returns a human-readable message including the offending expression.
func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonpath: %s at position %d in %q", e.Message, e.Position, e.Expression)
}

// Parse parses a JSONPath expression string into a Path.
// The returned error, when non-nil, is a *ParseError.
//
// Examples:
//
//	Parse("$")                                    // The document root
//	Parse("$.paths['/orders'].get")               // One operation
//	Parse("$.paths.*.*[?(!@.security)]")          // Operations without security
//	Parse("$.components.securitySchemes")         // The scheme registry
func Parse(expr string) (*Path, error) {
	if expr == "" {
		return nil, &ParseError{Expression: expr, Message: "empty expression"}
	}

	p := &parser{
		input: expr,
		pos:   0,
	}

	segments, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Path{
		raw:      expr,
		segments: segments,
	}, nil
}

// parser is the internal JSONPath parser.
type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Expression: p.input,
		Position:   p.pos,
		Message:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) parse() ([]Segment, error) {
	var segments []Segment

	// Must start with $
	if !p.consume('$') {
		return nil, p.errorf("expression must start with '$'")
	}
	segments = append(segments, RootSegment{})

	for p.pos < len(p.input) {
		ch := p.peek()

		switch ch {
		case '.':
			p.advance()
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		case '[':
			p.advance()
			seg, err := p.parseBracketSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		default:
			return nil, p.errorf("unexpected character %q", ch)
		}
	}

	return segments, nil
}

func (p *parser) parseDotSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end after '.'")
	}

	if p.peek() == '*' {
		p.advance()
		return WildcardSegment{}, nil
	}

	key := p.parseIdentifier()
	if key == "" {
		return nil, p.errorf("expected identifier after '.'")
	}

	return ChildSegment{Key: key}, nil
}

func (p *parser) parseBracketSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end after '['")
	}

	ch := p.peek()

	// Filter expression: [?...]
	if ch == '?' {
		p.advance()
		return p.parseFilterSegment()
	}

	// Wildcard: [*]
	if ch == '*' {
		p.advance()
		if !p.consume(']') {
			return nil, p.errorf("expected ']' after '[*'")
		}
		return WildcardSegment{}, nil
	}

	// Quoted string: ['key'] or ["key"]
	if ch == '\'' || ch == '"' {
		quote := ch
		p.advance()
		key, err := p.parseQuotedString(quote)
		if err != nil {
			return nil, err
		}
		if !p.consume(']') {
			return nil, p.errorf("expected ']' after quoted key")
		}
		return ChildSegment{Key: key}, nil
	}

	// Numeric index
	if unicode.IsDigit(rune(ch)) || ch == '-' {
		numStr := p.parseNumber()
		if !p.consume(']') {
			return nil, p.errorf("expected ']' after index")
		}
		idx, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, p.errorf("invalid index %q", numStr)
		}
		return IndexSegment{Index: idx}, nil
	}

	return nil, p.errorf("unexpected character %q in bracket", ch)
}

// parseFilterSegment parses the body of a [?...] selector. The leading '?'
// has been consumed; parentheses around the expression are optional.
func (p *parser) parseFilterSegment() (Segment, error) {
	hadParen := p.consume('(')

	expr, err := p.parseFilterExpr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if hadParen && !p.consume(')') {
		return nil, p.errorf("expected ')' to close filter expression")
	}
	if !p.consume(']') {
		return nil, p.errorf("expected ']' after filter expression")
	}

	return FilterSegment{Expr: expr}, nil
}

func (p *parser) parseFilterExpr() (*FilterExpr, error) {
	expr := &FilterExpr{}

	for {
		group, err := p.parseFilterGroup()
		if err != nil {
			return nil, err
		}
		expr.Groups = append(expr.Groups, group)

		p.skipWhitespace()
		if !p.consumeWord("||") {
			break
		}
	}

	return expr, nil
}

func (p *parser) parseFilterGroup() (*FilterGroup, error) {
	group := &FilterGroup{}

	for {
		term, err := p.parseFilterTerm()
		if err != nil {
			return nil, err
		}
		group.Terms = append(group.Terms, term)

		p.skipWhitespace()
		if !p.consumeWord("&&") {
			break
		}
	}

	return group, nil
}

func (p *parser) parseFilterTerm() (*FilterTerm, error) {
	p.skipWhitespace()

	term := &FilterTerm{}
	if p.consume('!') {
		term.Negated = true
		p.skipWhitespace()
	}

	if !p.consume('@') {
		return nil, p.errorf("expected '@' in filter term")
	}

	// Relative path steps: .field, .*, ['key'], [n], [?...]
	for p.pos < len(p.input) {
		switch p.peek() {
		case '.':
			p.advance()
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			term.Steps = append(term.Steps, seg)
			continue
		case '[':
			p.advance()
			seg, err := p.parseBracketSegment()
			if err != nil {
				return nil, err
			}
			term.Steps = append(term.Steps, seg)
			continue
		}
		break
	}

	if len(term.Steps) == 0 {
		return nil, p.errorf("expected '.' or '[' after '@'")
	}

	p.skipWhitespace()
	if op := p.parseOperator(); op != "" {
		term.Operator = op
		p.skipWhitespace()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		term.Value = value
	}

	return term, nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) {
		// Allow alphanumeric, underscore, hyphen (for x-* extensions)
		if isIdentChar(p.input[p.pos]) {
			p.pos++
		} else {
			break
		}
	}
	return p.input[start:p.pos]
}

func (p *parser) parseQuotedString(quote byte) (string, error) {
	var result strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return result.String(), nil
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			escaped := p.input[p.pos]
			switch escaped {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case '\\':
				result.WriteByte('\\')
			case '\'':
				result.WriteByte('\'')
			case '"':
				result.WriteByte('"')
			default:
				result.WriteByte(escaped)
			}
			p.pos++
			continue
		}
		result.WriteByte(ch)
		p.pos++
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) parseNumber() string {
	start := p.pos
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
		p.pos++
	}
	if p.pos < len(p.input) && p.input[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
			p.pos++
		}
	}
	return p.input[start:p.pos]
}

func (p *parser) parseOperator() string {
	if p.pos+1 < len(p.input) {
		twoChar := p.input[p.pos : p.pos+2]
		switch twoChar {
		case "==", "!=", "<=", ">=":
			p.pos += 2
			return twoChar
		}
	}
	if p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '<' || ch == '>' {
			p.pos++
			return string(ch)
		}
	}
	return ""
}

func (p *parser) parseValue() (any, error) {
	p.skipWhitespace()

	if p.pos >= len(p.input) {
		return nil, p.errorf("expected value")
	}

	ch := p.peek()

	if ch == '\'' || ch == '"' {
		quote := ch
		p.advance()
		return p.parseQuotedString(quote)
	}

	if strings.HasPrefix(p.input[p.pos:], "true") {
		p.pos += 4
		return true, nil
	}
	if strings.HasPrefix(p.input[p.pos:], "false") {
		p.pos += 5
		return false, nil
	}
	if strings.HasPrefix(p.input[p.pos:], "null") {
		p.pos += 4
		return nil, nil
	}

	if unicode.IsDigit(rune(ch)) || ch == '-' {
		numStr := p.parseNumber()
		if strings.Contains(numStr, ".") {
			f, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return nil, p.errorf("invalid number %q", numStr)
			}
			return f, nil
		}
		i, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", numStr)
		}
		return i, nil
	}

	return nil, p.errorf("unexpected character %q when parsing value", ch)
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *parser) consume(ch byte) bool {
	if p.peek() == ch {
		p.advance()
		return true
	}
	return false
}

// consumeWord consumes the exact string w when it appears at the cursor.
func (p *parser) consumeWord(w string) bool {
	if strings.HasPrefix(p.input[p.pos:], w) {
		p.pos += len(w)
		return true
	}
	return false
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-'
}
