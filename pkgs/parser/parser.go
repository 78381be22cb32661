// Package parser implements the recursive-descent parser that turns a
// lexer's token stream into a lazy sequence of AST roots, one per
// top-level statement.
package parser

import (
	"errors"
	"strings"

	"github.com/lyth-lang/lyth/pkgs/ast"
	"github.com/lyth-lang/lyth/pkgs/diag"
	"github.com/lyth-lang/lyth/pkgs/lexer"
)

// ErrEndOfProgram is returned by NextStatement once the lexer's EOF
// token has been reached with no statement pending.
var ErrEndOfProgram = errors.New("parser: no more statements")

// Parser is a recursive-descent parser with a single-token lookaside,
// consuming from a lexer.
type Parser struct {
	lex *lexer.Lexer

	saved    lexer.Token
	hasSaved bool

	currentIndent int

	// blockEnded reports whether the statement just parsed ended by
	// exhausting a block (a let: block or a classdef), in which case
	// the block already consumed its own trailing EOL and the token
	// now peeked belongs to whatever follows the block, not to this
	// statement.
	blockEnded bool
}

// New creates a parser pulling from the given lexer.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

func (p *Parser) next() (lexer.Token, error) {
	if p.hasSaved {
		p.hasSaved = false
		return p.saved, nil
	}
	return p.lex.Next()
}

// peek returns the next token without consuming it, filling the
// single lookaside slot if it is empty.
func (p *Parser) peek() (lexer.Token, error) {
	if p.hasSaved {
		return p.saved, nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		return lexer.Token{}, err
	}
	p.saved = tok
	p.hasSaved = true
	return tok, nil
}

// NextStatement parses and returns the next top-level statement, or
// ErrEndOfProgram once the token stream is exhausted.
//
// A top-level EOL is consumed here rather than handed to statement():
// when EOF follows it, it is the script's terminating blank line, not a
// statement; when anything else follows, the blank line reduces to a
// Noop of its own.
func (p *Parser) NextStatement() (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.EOL {
		p.next()
		after, err := p.peek()
		if err != nil {
			return nil, err
		}
		if after.Kind == lexer.EOF {
			return nil, ErrEndOfProgram
		}
		return ast.New(ast.Noop, tok.Origin), nil
	}
	if tok.Kind == lexer.EOF {
		return nil, ErrEndOfProgram
	}
	return p.statement()
}

// statement := assign EOL
//
// A block-form assign (a let: block, or a classdef) already consumes
// its own trailing EOL as the last statement inside block(); whatever
// token is peeked afterwards (EOF, a dedent, a lower indent) belongs
// to the enclosing block or driver cycle, not to this statement, and
// is left unconsumed rather than demanded as an EOL.
func (p *Parser) statement() (*ast.Node, error) {
	p.blockEnded = false
	node, err := p.assign()
	if err != nil {
		return nil, err
	}
	if p.blockEnded {
		return node, nil
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.EOL {
		return nil, diag.New(diag.GarbageCharacters, tok.Origin)
	}
	return node, nil
}

// assign := let_form | expr_or_assign
func (p *Parser) assign() (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.LET {
		p.next()
		return p.letForm(tok.Origin)
	}
	node, _, err := p.exprOrAssign()
	return node, err
}

// let_form := 'let' ':' EOL block      -- multi-statement
//           | 'let' expr_or_assign     -- single-statement
func (p *Parser) letForm(letOrigin diag.Origin) (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.COLON {
		p.next()
		eol, err := p.next()
		if err != nil {
			return nil, err
		}
		if eol.Kind != lexer.EOL {
			return nil, diag.New(diag.SyntaxError, eol.Origin)
		}
		children, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Let, letOrigin, children...), nil
	}

	node, wasAssign, err := p.exprOrAssign()
	if err != nil {
		return nil, err
	}
	if !wasAssign {
		return nil, diag.New(diag.LetOnExpression, node.Origin)
	}
	return ast.New(ast.Let, letOrigin, node), nil
}

// expr_or_assign := expr (('<-' expr) | ('->' NAME))?
//
// The bool result reports whether the production reduced to an
// assignment or a class definition, for let_form's LET_ON_EXPRESSION
// check.
func (p *Parser) exprOrAssign() (*ast.Node, bool, error) {
	node, err := p.expr(true)
	if err != nil {
		return nil, false, err
	}
	if node.Kind == ast.Class {
		return node, true, nil
	}

	tok, err := p.peek()
	if err != nil {
		return nil, false, err
	}

	switch tok.Kind {
	case lexer.MUTASSIGN:
		p.next()
		if node.Kind != ast.Name {
			return nil, false, diag.New(diag.LeftMemberIsExpression, node.Origin)
		}
		rhs, err := p.expr(false)
		if err != nil {
			return nil, false, err
		}
		return ast.New(ast.MutableAssign, tok.Origin, node, rhs), true, nil

	case lexer.IMMASSIGN:
		p.next()
		nameTok, err := p.next()
		if err != nil {
			return nil, false, err
		}
		if nameTok.Kind != lexer.STRING {
			return nil, false, diag.New(diag.NameExpected, nameTok.Origin)
		}
		after, err := p.peek()
		if err != nil {
			return nil, false, err
		}
		if after.Kind != lexer.EOL {
			return nil, false, diag.New(diag.GarbageCharacters, after.Origin)
		}
		target := ast.NewName(nameTok.Text, nameTok.Origin)
		return ast.New(ast.ImmutableAssign, tok.Origin, target, node), true, nil

	default:
		return node, false, nil
	}
}

// expr := addition
//
// first reports whether this expression opens a statement: only there
// may an empty line collapse to Noop (see multiplication).
func (p *Parser) expr(first bool) (*ast.Node, error) {
	return p.addition(first)
}

// addition := multiplication (('+'|'-') multiplication)*
func (p *Parser) addition(first bool) (*ast.Node, error) {
	node, err := p.multiplication(first)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		var kind ast.Kind
		switch tok.Kind {
		case lexer.PLUS:
			kind = ast.Add
		case lexer.MINUS:
			kind = ast.Sub
		default:
			return node, nil
		}
		p.next()
		rhs, err := p.multiplication(false)
		if err != nil {
			return nil, err
		}
		node = ast.New(kind, node.Origin, node, rhs)
	}
}

// multiplication := literal (('*'|'/'|'//') literal)*
//
// When this production opens a statement (first), a leading literal's
// INCOMPLETE_LINE (an empty line, or a bare docstring, reaching
// straight through to EOL/EOF) is caught and reduced to Noop. As an
// operator's right-hand operand it propagates: "1 +" is a missing
// operand, not an empty statement.
func (p *Parser) multiplication(first bool) (*ast.Node, error) {
	node, err := p.literal()
	if err != nil {
		var de *diag.Error
		if first && errors.As(err, &de) && de.Kind == diag.IncompleteLine {
			return ast.New(ast.Noop, de.Origin), nil
		}
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		var kind ast.Kind
		switch tok.Kind {
		case lexer.STAR:
			kind = ast.Mul
		case lexer.SLASH:
			kind = ast.Div
		case lexer.SLASHSLASH:
			kind = ast.Floor
		default:
			return node, nil
		}
		p.next()
		rhs, err := p.literal()
		if err != nil {
			return nil, err
		}
		node = ast.New(kind, node.Origin, node, rhs)
	}
}

// literal := NUM
//          | NAME (classdef_tail)?
//          | '(' expr ')'
//          | docstring literal
func (p *Parser) literal() (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.EOL || tok.Kind == lexer.EOF {
		return nil, diag.New(diag.IncompleteLine, tok.Origin)
	}
	p.next()

	switch tok.Kind {
	case lexer.VALUE:
		return ast.NewNum(tok.Int, tok.Origin), nil

	case lexer.STRING:
		return p.classdefTail(tok)

	case lexer.LPAREN:
		node, err := p.expr(false)
		if err != nil {
			return nil, err
		}
		closeTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if closeTok.Kind != lexer.RPAREN {
			return nil, diag.New(diag.SyntaxError, closeTok.Origin)
		}
		return node, nil

	case lexer.TRIPLEQUOTE:
		return p.docstring(tok)

	default:
		return nil, diag.New(diag.LiteralExpected, tok.Origin)
	}
}

// classdef := NAME ('be' NAME)? ':' EOL block
//
// A bare NAME with no 'be'/':' tail is a plain name reference.
func (p *Parser) classdefTail(nameTok lexer.Token) (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.BE && tok.Kind != lexer.COLON {
		return ast.NewName(nameTok.Text, nameTok.Origin), nil
	}

	var typeNode *ast.Node
	if tok.Kind == lexer.BE {
		p.next()
		typeTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if typeTok.Kind != lexer.STRING {
			return nil, diag.New(diag.NameExpected, typeTok.Origin)
		}
		typeNode = ast.New(ast.Type, typeTok.Origin, ast.NewName(typeTok.Text, typeTok.Origin))
	}

	colonTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if colonTok.Kind != lexer.COLON {
		return nil, diag.New(diag.SyntaxError, colonTok.Origin)
	}
	eolTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if eolTok.Kind != lexer.EOL {
		return nil, diag.New(diag.SyntaxError, eolTok.Origin)
	}

	children, err := p.block()
	if err != nil {
		return nil, err
	}

	classChildren := []*ast.Node{ast.NewName(nameTok.Text, nameTok.Origin)}
	if typeNode != nil {
		classChildren = append(classChildren, typeNode)
	}
	classChildren = append(classChildren, children...)
	return ast.New(ast.Class, nameTok.Origin, classChildren...), nil
}

// docstring := '"""' ... '"""'
//
// The body's tokens are discarded as language content (no grammar is
// applied to them), but their lexemes are kept on the resulting Doc
// node's Text field so the analyzer can content-address the body;
// literal then recurses to parse whatever follows the closing
// delimiter.
func (p *Parser) docstring(openTok lexer.Token) (*ast.Node, error) {
	var body strings.Builder
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TRIPLEQUOTE {
			break
		}
		if tok.Kind == lexer.EOF {
			return nil, diag.New(diag.SyntaxError, tok.Origin)
		}
		if tok.Kind == lexer.EOL || tok.Kind == lexer.INDENT {
			continue
		}
		if body.Len() > 0 {
			body.WriteByte(' ')
		}
		body.WriteString(tok.Text)
	}

	next, err := p.literal()
	if err != nil {
		return nil, err
	}
	doc := ast.New(ast.Doc, openTok.Origin, next)
	doc.Text = body.String()
	return doc, nil
}

// block := (INDENT(level) statement)* while indent > parent_level
//
// Entering a block increments the shared indent counter; a dedent to
// any lesser level ends it (without consuming the token that revealed
// the dedent); a level strictly greater fails INCONSISTENT_INDENT;
// EOL is skipped; EOF ends the block, leaving EOF saved for the
// caller.
func (p *Parser) block() ([]*ast.Node, error) {
	p.currentIndent++
	defer func() { p.currentIndent-- }()

	var children []*ast.Node
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case lexer.EOL:
			p.next()
		case lexer.EOF:
			p.blockEnded = true
			return children, nil
		case lexer.INDENT:
			if tok.Int < p.currentIndent {
				p.blockEnded = true
				return children, nil
			}
			if tok.Int > p.currentIndent {
				return nil, diag.New(diag.InconsistentIndent, tok.Origin)
			}
			p.next()
			node, err := p.statement()
			if err != nil {
				return nil, err
			}
			children = append(children, node)
		default:
			// No leading indentation: a dedent to level 0.
			p.blockEnded = true
			return children, nil
		}
	}
}
