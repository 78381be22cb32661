// Package lexer aggregates the characters pulled from a scanner into a
// lazy stream of Tokens, enforcing the spacing rules, indentation
// rules, and multi-character operator rules of the language.
package lexer

import (
	"errors"
	"strconv"

	"github.com/lyth-lang/lyth/pkgs/diag"
	"github.com/lyth-lang/lyth/pkgs/scanner"
)

// ErrExhausted is returned when Next is called again after the lexer
// has already emitted its terminal EOF token with no further progress
// in between. The lexer is restartable only by constructing a fresh
// instance over a fresh scanner.
var ErrExhausted = errors.New("lexer: exhausted; construct a fresh instance")

// builder is the token under construction. It is at most one per
// Lexer at any time, mirroring the single in-flight token the
// original aggregation algorithm keeps.
type builder struct {
	kind   Kind
	text   string
	origin diag.Origin
	quotes int // running count of consecutive '"' seen, for TRIPLEQUOTE
}

type pendingChar struct {
	ch     rune
	origin diag.Origin
}

// Lexer is a single-threaded pull loop over a Scanner. It holds one
// under-construction token and, at most, one look-ahead character used
// to "un-consume" a character already read from the scanner.
type Lexer struct {
	scan *scanner.Scanner

	current     *builder
	atLineStart bool
	owedEOL     bool
	pendingSeed *pendingChar

	eofEmitted bool
}

// New creates a lexer pulling from the given scanner.
func New(s *scanner.Scanner) *Lexer {
	return &Lexer{scan: s, atLineStart: true}
}

func (l *Lexer) originHere() diag.Origin {
	return diag.Origin{
		Filename: l.scan.Filename,
		Line:     l.scan.Line(),
		Column:   l.scan.Column(),
		LineText: l.scan.CurrentLine(),
	}
}

// Next produces the next token from the scanned source. It returns
// ErrExhausted once the terminal EOF token has already been emitted
// and no further source has been appended to the underlying scanner.
func (l *Lexer) Next() (Token, error) {
	if l.owedEOL {
		l.owedEOL = false
		return Token{Kind: EOL, Origin: l.originHere()}, nil
	}

	for {
		var ch rune
		var origin diag.Origin

		if l.pendingSeed != nil {
			ch = l.pendingSeed.ch
			origin = l.pendingSeed.origin
			l.pendingSeed = nil
			l.eofEmitted = false
		} else {
			c, ok := l.scan.NextChar()
			if !ok {
				return l.onEOF()
			}
			ch = c
			origin = l.originHere()
			l.eofEmitted = false
		}

		switch {
		case ch == '\n':
			return l.onNewline(origin)
		case ch == ' ':
			tok, done, err := l.onSpace(origin)
			if err != nil {
				return Token{}, err
			}
			if done {
				return tok, nil
			}
		default:
			tok, done, err := l.onChar(ch, origin)
			if err != nil {
				return Token{}, err
			}
			if done {
				return tok, nil
			}
		}
	}
}

func (l *Lexer) onEOF() (Token, error) {
	if !l.scan.EndsWithNewline() {
		return Token{}, diag.New(diag.MissingEmptyLine, l.originHere())
	}
	if l.eofEmitted {
		return Token{}, ErrExhausted
	}
	l.eofEmitted = true
	return Token{Kind: EOF, Origin: l.originHere()}, nil
}

func (l *Lexer) onNewline(origin diag.Origin) (Token, error) {
	l.atLineStart = true
	if l.current != nil {
		tok, err := l.finalize()
		l.current = nil
		if err != nil {
			return Token{}, err
		}
		l.owedEOL = true
		return tok, nil
	}
	return Token{Kind: EOL, Origin: origin}, nil
}

// onSpace handles a plain ASCII space. At column 0 (atLineStart) a
// leading space seeds or extends an INDENT token; otherwise spaces are
// pure delimiters.
func (l *Lexer) onSpace(origin diag.Origin) (Token, bool, error) {
	if l.atLineStart {
		if l.current == nil {
			l.current = &builder{kind: INDENT, text: " ", origin: origin}
		} else {
			l.current.text += " "
		}
		return Token{}, false, nil
	}

	if l.current != nil {
		tok, err := l.finalize()
		l.current = nil
		if err != nil {
			return Token{}, false, err
		}
		return tok, true, nil
	}
	return Token{}, false, nil
}

// onChar handles any non-space, non-newline character.
func (l *Lexer) onChar(ch rune, origin diag.Origin) (Token, bool, error) {
	if l.atLineStart {
		l.atLineStart = false
		if l.current != nil && l.current.kind == INDENT {
			tok, err := l.finalize()
			l.current = nil
			if err != nil {
				return Token{}, false, err
			}
			l.pendingSeed = &pendingChar{ch: ch, origin: origin}
			return tok, true, nil
		}
	}

	if l.current == nil {
		return l.seed(ch, origin)
	}
	return l.extend(ch, origin)
}

func (l *Lexer) seed(ch rune, origin diag.Origin) (Token, bool, error) {
	switch {
	case isDigit(ch):
		l.current = &builder{kind: VALUE, text: string(ch), origin: origin}
	case isIdentStart(ch):
		l.current = &builder{kind: STRING, text: string(ch), origin: origin}
	case ch == '"':
		l.current = &builder{kind: TRIPLEQUOTE, text: string(ch), origin: origin, quotes: 1}
	case ch == '!':
		// '!' is never valid on its own; it must extend to "!=".
		l.current = &builder{kind: NE, text: "!", origin: origin}
	case isSymbolStart(ch):
		l.current = &builder{kind: symbolSeeds[ch], text: string(ch), origin: origin}
	default:
		return Token{}, false, diag.New(diag.InvalidCharacter, origin)
	}
	return Token{}, false, nil
}

// extend applies the token construction contract's extension rules to
// the token under construction.
func (l *Lexer) extend(ch rune, origin diag.Origin) (Token, bool, error) {
	cur := l.current

	// Recovery: ')', ':' and '"' are always valid directly after any
	// complete token, permitting "5)", "a)", the block heads "let:",
	// "point:", and a closing docstring delimiter touching the last
	// body word, all without an intervening space. A docstring
	// delimiter still in progress (1 or 2 quotes seen) is exempt since
	// it cannot yet be a complete token.
	if (ch == ')' || ch == ':' || ch == '"') && !(cur.kind == TRIPLEQUOTE && cur.quotes < 3) {
		tok, err := l.finalize()
		if err != nil {
			return Token{}, false, err
		}
		l.current = nil
		l.pendingSeed = &pendingChar{ch: ch, origin: origin}
		return tok, true, nil
	}

	if cur.kind == TRIPLEQUOTE && cur.quotes < 3 {
		if ch == '"' {
			cur.quotes++
			cur.text += `"`
			if cur.quotes == 3 {
				tok, err := l.finalize()
				l.current = nil
				return tok, true, err
			}
			return Token{}, false, nil
		}
		return Token{}, false, diag.New(diag.SyntaxError, origin)
	}

	if isLiteralLike(cur.kind) {
		if cur.kind == VALUE && isDigit(ch) {
			cur.text += string(ch)
			return Token{}, false, nil
		}
		if (cur.kind == STRING || isKeywordKind(cur.kind)) && isIdentPart(ch) {
			cur.text += string(ch)
			if k, ok := keywords[cur.text]; ok {
				cur.kind = k
			} else if isKeywordKind(cur.kind) {
				cur.kind = STRING
			}
			return Token{}, false, nil
		}
		if isSymbolStart(ch) {
			return Token{}, false, diag.New(diag.MissingSpaceBeforeOperator, origin)
		}
		return Token{}, false, diag.New(diag.SyntaxError, origin)
	}

	// A symbol token is under construction.
	if isIdentPart(ch) {
		if cur.kind == LPAREN || ((cur.kind == PLUS || cur.kind == MINUS) && isDigit(ch)) {
			// Recovery: "+5" and "-5" permit a signed literal without
			// an intervening space; "(" accepts any literal start, so
			// "(5" and "(a" both lex.
			tok, err := l.finalize()
			if err != nil {
				return Token{}, false, err
			}
			l.current = nil
			l.pendingSeed = &pendingChar{ch: ch, origin: origin}
			return tok, true, nil
		}
		return Token{}, false, diag.New(diag.MissingSpaceAfterOperator, origin)
	}

	if isSymbolStart(ch) {
		combined := cur.text + string(ch)
		if k, ok := symbolExtensions[combined]; ok {
			cur.kind = k
			cur.text = combined
			return Token{}, false, nil
		}
		return Token{}, false, diag.New(diag.SyntaxError, origin)
	}

	return Token{}, false, diag.New(diag.SyntaxError, origin)
}

func isLiteralLike(k Kind) bool {
	return k == VALUE || k == STRING || isKeywordKind(k)
}

func isKeywordKind(k Kind) bool {
	switch k {
	case LET, BE, IF, FOR, IN, IS, AT, OF, AND, OR, NOT, TRUE, FALSE, NONE, WITH, FROM, IMPORT:
		return true
	}
	return false
}

// finalize converts the in-progress builder into a Token, applying the
// finalization contract: VALUE becomes an integer, INDENT becomes an
// indent level (failing on odd width).
func (l *Lexer) finalize() (Token, error) {
	cur := l.current

	if cur.kind == NE && cur.text == "!" {
		return Token{}, diag.New(diag.SyntaxError, cur.origin)
	}

	switch cur.kind {
	case VALUE:
		n, err := strconv.Atoi(cur.text)
		if err != nil {
			return Token{}, diag.New(diag.SyntaxError, cur.origin)
		}
		return Token{Kind: VALUE, Text: cur.text, Int: n, Origin: cur.origin}, nil
	case INDENT:
		if len(cur.text)%2 != 0 {
			return Token{}, diag.New(diag.UnevenIndent, cur.origin)
		}
		return Token{Kind: INDENT, Text: cur.text, Int: len(cur.text) / 2, Origin: cur.origin}, nil
	case TRIPLEQUOTE:
		if cur.quotes != 3 {
			return Token{}, diag.New(diag.SyntaxError, cur.origin)
		}
		return Token{Kind: TRIPLEQUOTE, Text: cur.text, Origin: cur.origin}, nil
	default:
		return Token{Kind: cur.kind, Text: cur.text, Origin: cur.origin}, nil
	}
}
