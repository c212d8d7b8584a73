package lax

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

const MaxDepth = 512

// DocType is the name carried by the sentinel element produced when a
// doctype declaration is skipped.
const DocType = "doctype_decl"

// ParseError reports where a grammar rule gave up. Input holds the
// unconsumed input at the point of failure. A fatal error aborts the
// whole parse: once a production has committed, no sibling alternative
// is tried.
type ParseError struct {
	Element string
	Message string
	Input   string
	Fatal   bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Element, e.Message)
}

func IsFatal(err error) bool {
	var e *ParseError
	return errors.As(err, &e) && e.Fatal
}

func softError(elem, msg, input string) error {
	return &ParseError{
		Element: elem,
		Message: msg,
		Input:   input,
	}
}

func fatalError(elem, msg, input string) error {
	return &ParseError{
		Element: elem,
		Message: msg,
		Input:   input,
		Fatal:   true,
	}
}

// Parser holds the configuration of one parsing session. It keeps no
// state across calls and can be shared between goroutines.
type Parser struct {
	// NoClose lists tag names allowed to close with a bare > and no
	// matching end tag. Such elements never have children.
	NoClose []string

	// MaxDepth bounds element nesting; zero means the package default.
	MaxDepth int
}

func NewParser(noclose ...string) *Parser {
	return &Parser{
		NoClose:  noclose,
		MaxDepth: MaxDepth,
	}
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return MaxDepth
	}
	return p.MaxDepth
}

// ParseElement reads one element from the start of input and returns it
// together with the remaining input. Trailing whitespace after the
// element is consumed.
func (p *Parser) ParseElement(input string) (*Element, string, error) {
	return p.parseElement(input, 0)
}

// ParseNode reads one node from the start of input: an element when the
// input begins with markup, a chardata run otherwise.
func (p *Parser) ParseNode(input string) (Node, string, error) {
	return p.parseNode(input, 0)
}

// CompleteElement parses an element and requires the input to be fully
// consumed. The result is normalized in place with StripSpace. It
// returns nil on any failure or leftover input; use ParseElement when
// the failure itself is of interest.
func (p *Parser) CompleteElement(input string) *Element {
	elem, rest, err := p.ParseElement(input)
	if err != nil || rest != "" {
		return nil
	}
	elem.StripSpace()
	return elem
}

// CompleteDocument is the full-consumption variant of ParseDocument.
func (p *Parser) CompleteDocument(input string) *Document {
	doc, rest, err := p.ParseDocument(input)
	if err != nil || rest != "" {
		return nil
	}
	doc.Root.StripSpace()
	return doc
}

func (p *Parser) parseElement(input string, depth int) (*Element, string, error) {
	if depth >= p.maxDepth() {
		return nil, input, fatalError("element", "maximum depth reached", input)
	}
	rest, ok := strings.CutPrefix(input, "<")
	if !ok {
		return nil, input, softError("element", "opening tag expected", input)
	}
	name, rest, err := identifier(rest)
	if err != nil {
		return nil, input, err
	}
	if name == "!DOCTYPE" {
		ix := strings.IndexByte(rest, '>')
		if ix < 0 {
			return nil, input, fatalError("doctype", "declaration is not terminated", rest)
		}
		return NewElement(DocType), rest[ix+1:], nil
	}
	name = strings.ToLower(name)
	rest = skipSpace(rest)

	type attr struct {
		key   string
		value string
	}
	var attrs []attr
	for {
		key, value, next, err := attribute(rest)
		if err != nil {
			break
		}
		attrs = append(attrs, attr{key, value})
		rest = next
	}

	children, rest, err := p.parseClosing(rest, name, depth)
	if err != nil {
		return nil, input, err
	}

	elem := NewElement(name)
	elem.Nodes = children
	for _, a := range attrs {
		if _, ok := elem.Attrs[a.key]; ok {
			return nil, input, fatalError("attribute", "attribute is already defined", rest)
		}
		elem.Attrs[a.key] = a.value
	}
	return elem, skipSpace(rest), nil
}

// parseClosing tries the three ways a start tag can end, in order: a
// bare > for names in the no-close set, the empty-element tag />, and a
// full body terminated by a matching end tag.
func (p *Parser) parseClosing(input, name string, depth int) ([]Node, string, error) {
	if slices.Contains(p.NoClose, name) {
		if rest, ok := strings.CutPrefix(input, ">"); ok {
			return nil, rest, nil
		}
	}
	if rest, ok := strings.CutPrefix(input, "/>"); ok {
		return nil, rest, nil
	}
	rest, ok := strings.CutPrefix(input, ">")
	if !ok {
		return nil, input, softError("element", "end of element expected", input)
	}
	rest = skipSpace(rest)

	var nodes []Node
	for {
		if next, ok := strings.CutPrefix(rest, "</"); ok {
			rest = next
			break
		}
		node, next, err := p.parseNode(rest, depth+1)
		if err != nil {
			return nil, input, err
		}
		if next == rest {
			return nil, input, softError("element", "element content expected", rest)
		}
		nodes = append(nodes, node)
		rest = next
	}
	rest = skipSpace(rest)
	closing, rest, err := identifier(rest)
	if err != nil {
		return nil, input, err
	}
	if !strings.EqualFold(closing, name) {
		return nil, input, fatalError("element", "name mismatched with opening element", rest)
	}
	rest = skipSpace(rest)
	if rest, ok = strings.CutPrefix(rest, ">"); !ok {
		return nil, input, softError("element", "end of element expected", rest)
	}
	return nodes, rest, nil
}

func (p *Parser) parseNode(input string, depth int) (Node, string, error) {
	elem, rest, err := p.parseElement(input, depth)
	if err == nil {
		return elem, rest, nil
	}
	if IsFatal(err) {
		return nil, input, err
	}
	data, rest, err := ParseCharData(input)
	if err != nil {
		return nil, input, err
	}
	return NewCharData(data), rest, nil
}

// ParseDocument reads a prolog followed by the root element and returns
// the document together with the remaining input.
func (p *Parser) ParseDocument(input string) (*Document, string, error) {
	rest, ok := strings.CutPrefix(skipSpace(input), "<?xml")
	if !ok {
		return nil, input, softError("document", "xml prolog missing", input)
	}
	rest = skipSpace(rest)
	if rest, ok = strings.CutPrefix(rest, "version"); !ok {
		return nil, input, softError("prolog", "version is missing", rest)
	}
	rest, err := eq(rest)
	if err != nil {
		return nil, input, err
	}
	version, rest, err := versionNum(rest)
	if err != nil {
		return nil, input, err
	}
	rest = skipSpace(rest)
	encoding, rest, err := parseEncoding(rest)
	if err != nil {
		return nil, input, err
	}
	rest = skipSpace(rest)
	if rest, ok = strings.CutPrefix(rest, "?>"); !ok {
		return nil, input, softError("prolog", "end of prolog expected", rest)
	}
	root, rest, err := p.parseElement(skipSpace(rest), 0)
	if err != nil {
		return nil, input, err
	}
	doc := Document{
		Version:  version,
		Encoding: encoding,
		Root:     root,
	}
	return &doc, skipSpace(rest), nil
}

// versionNum reads a quoted version literal. Only the digit run after
// the literal prefix 1. is reported: "1.0" gives 0 and "1.23" gives 23.
func versionNum(input string) (int, string, error) {
	if len(input) == 0 || (input[0] != '"' && input[0] != '\'') {
		return 0, input, softError("prolog", "quoted version expected", input)
	}
	quote := input[0]
	rest, ok := strings.CutPrefix(input[1:], "1.")
	if !ok {
		return 0, input, softError("prolog", "version not supported", input)
	}
	var n int
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	version, err := strconv.Atoi(rest[:n])
	if err != nil {
		return 0, input, softError("prolog", "invalid version number", rest)
	}
	if n >= len(rest) || rest[n] != quote {
		return 0, input, softError("prolog", "closing quote is missing", rest)
	}
	return version, rest[n+1:], nil
}

func parseEncoding(input string) (string, string, error) {
	rest, ok := strings.CutPrefix(input, "encoding")
	if !ok {
		return "", input, nil
	}
	rest, err := eq(rest)
	if err != nil {
		return "", input, err
	}
	value, rest, err := attrValue(rest)
	if err != nil {
		return "", input, err
	}
	return value, rest, nil
}

// ParseCharData reads a CDATA section, captured verbatim up to its
// terminating marker, or a plain run of characters that are neither <
// nor >. The plain run may be empty.
func ParseCharData(input string) (string, string, error) {
	if rest, ok := strings.CutPrefix(input, "<![CDATA["); ok {
		if ix := strings.Index(rest, "]]>"); ix >= 0 {
			return rest[:ix], rest[ix+3:], nil
		}
	}
	var n int
	for n < len(input) && input[n] != '<' && input[n] != '>' {
		n++
	}
	return input[:n], input[n:], nil
}

func isNameRune(r byte) bool {
	return r == ':' || r == '!' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func skipSpace(input string) string {
	return strings.TrimLeftFunc(input, unicode.IsSpace)
}

func identifier(input string) (string, string, error) {
	var n int
	for n < len(input) && isNameRune(input[n]) {
		n++
	}
	if n == 0 {
		return "", input, softError("identifier", "name is missing", input)
	}
	return input[:n], input[n:], nil
}

func attrValue(input string) (string, string, error) {
	if len(input) == 0 || (input[0] != '"' && input[0] != '\'') {
		return "", input, softError("attribute", "quoted value expected", input)
	}
	quote := input[0]
	rest := input[1:]
	ix := strings.IndexByte(rest, quote)
	if ix < 0 {
		return "", input, softError("attribute", "closing quote is missing", input)
	}
	return rest[:ix], rest[ix+1:], nil
}

func eq(input string) (string, error) {
	rest, ok := strings.CutPrefix(skipSpace(input), "=")
	if !ok {
		return input, softError("attribute", "= expected", input)
	}
	return skipSpace(rest), nil
}

func attribute(input string) (string, string, string, error) {
	key, rest, err := identifier(skipSpace(input))
	if err != nil {
		return "", "", input, err
	}
	rest, err = eq(rest)
	if err != nil {
		return "", "", input, err
	}
	value, rest, err := attrValue(rest)
	if err != nil {
		return "", "", input, err
	}
	return strings.ToLower(key), value, skipSpace(rest), nil
}
