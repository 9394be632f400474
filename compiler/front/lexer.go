package front

import (
	"fmt"

	"github.com/t8lang/t8/compiler/ast"
)

type (
	Kind int

	Token struct {
		Kind Kind
		Lex  string
		Pos  ast.Pos
	}

	// Lexer walks source text byte by byte and produces tokens on demand.
	// It has no state beyond the cursor, so lexing the same text twice
	// yields the same token sequence.
	Lexer struct {
		b []byte

		i    int
		line int
		col  int
	}

	LexError struct {
		Pos  ast.Pos
		Char byte
	}
)

const (
	EOF Kind = iota
	Keyword
	Ident
	Int
	Op
	Punct
)

var keywords = map[string]struct{}{
	"VAR":  {},
	"IF":   {},
	"ELSE": {},
}

func NewLexer(text []byte) *Lexer {
	return &Lexer{
		b:    text,
		line: 1,
		col:  1,
	}
}

// Tokenize reads the whole stream up to and including the EOF token.
func Tokenize(text []byte) ([]Token, error) {
	l := NewLexer(text)

	var toks []Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) Next() (Token, error) {
	l.skipSpaces()

	pos := l.pos()

	if l.i == len(l.b) {
		return Token{Kind: EOF, Pos: pos}, nil
	}

	c := l.b[l.i]

	switch {
	case isLetter(c):
		st := l.i
		for l.i < len(l.b) && isAlnum(l.b[l.i]) {
			l.advance()
		}

		lex := string(l.b[st:l.i])

		if _, ok := keywords[lex]; ok {
			return Token{Kind: Keyword, Lex: lex, Pos: pos}, nil
		}

		return Token{Kind: Ident, Lex: lex, Pos: pos}, nil
	case isDigit(c):
		st := l.i
		for l.i < len(l.b) && isDigit(l.b[l.i]) {
			l.advance()
		}

		return Token{Kind: Int, Lex: string(l.b[st:l.i]), Pos: pos}, nil
	}

	switch c {
	case '+', '-', '>', '<':
		l.advance()

		return Token{Kind: Op, Lex: string(c), Pos: pos}, nil
	case '=':
		l.advance()

		if l.i < len(l.b) && l.b[l.i] == '=' {
			l.advance()

			return Token{Kind: Op, Lex: "==", Pos: pos}, nil
		}

		return Token{Kind: Op, Lex: "=", Pos: pos}, nil
	case ';', '{', '}', '(', ')':
		l.advance()

		return Token{Kind: Punct, Lex: string(c), Pos: pos}, nil
	}

	return Token{}, LexError{Pos: pos, Char: c}
}

func (l *Lexer) skipSpaces() {
	for l.i < len(l.b) {
		switch l.b[l.i] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.i+1 == len(l.b) || l.b[l.i+1] != '/' {
				return
			}

			for l.i < len(l.b) && l.b[l.i] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) advance() {
	if l.b[l.i] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.i++
}

func (l *Lexer) pos() ast.Pos {
	return ast.Pos{Line: l.line, Col: l.col}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Keyword:
		return "keyword"
	case Ident:
		return "identifier"
	case Int:
		return "integer"
	case Op:
		return "operator"
	case Punct:
		return "punctuation"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (e LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at %d:%d", e.Char, e.Pos.Line, e.Pos.Col)
}
