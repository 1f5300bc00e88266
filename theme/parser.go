package theme

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	themeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(themeLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a theme file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'theme' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is a named group of assignments (meta/colors/sizes).
type Section struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"@( 'meta' | 'colors' | 'sizes' )"`
	Block *Block         `parser:"@@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value is a string, a number with optional unit, a colour or a bare word.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value as written, strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses theme content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses theme content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
