package front

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/t8lang/t8/compiler/ast"
)

type (
	// Parser is a predictive single-token-lookahead descent parser.
	// Each grammar rule maps to one method. It stops at the first error.
	Parser struct {
		l   *Lexer
		tok Token
	}

	ParseError struct {
		Pos      ast.Pos
		Expected []string
		Found    string
	}
)

func Parse(ctx context.Context, text []byte) (p *ast.Program, err error) {
	tr := tlog.SpanFromContext(ctx)

	if tr.If("dump_tokens") {
		toks, err := Tokenize(text)
		if err == nil {
			for _, tok := range toks {
				tr.Printw("token", "kind", tok.Kind, "lex", tok.Lex, "line", tok.Pos.Line, "col", tok.Pos.Col)
			}
		}
	}

	s := &Parser{l: NewLexer(text)}

	err = s.next()
	if err != nil {
		return nil, err
	}

	p, err = s.parseProgram(ctx)
	if err != nil {
		return nil, err
	}

	tr.Printw("parsed", "stmts", len(p.Stmts))

	return p, nil
}

func (s *Parser) parseProgram(ctx context.Context) (*ast.Program, error) {
	p := &ast.Program{}

	for s.tok.Kind != EOF {
		x, err := s.parseStmt(ctx)
		if err != nil {
			return nil, err
		}

		p.Stmts = append(p.Stmts, x)
	}

	return p, nil
}

func (s *Parser) parseStmt(ctx context.Context) (ast.Stmt, error) {
	switch {
	case s.tok.Kind == Keyword && s.tok.Lex == "VAR":
		return s.parseVarDecl(ctx)
	case s.tok.Kind == Keyword && s.tok.Lex == "IF":
		return s.parseIf(ctx)
	case s.tok.Kind == Ident:
		return s.parseAssign(ctx)
	}

	return nil, s.expected("VAR", "IF", "identifier")
}

func (s *Parser) parseVarDecl(ctx context.Context) (x ast.VarDecl, err error) {
	x.Pos = s.tok.Pos

	err = s.next() // VAR
	if err != nil {
		return x, err
	}

	x.Name, err = s.ident()
	if err != nil {
		return x, err
	}

	err = s.op("=")
	if err != nil {
		return x, err
	}

	x.Init, err = s.parseExpr(ctx)
	if err != nil {
		return x, errors.Wrap(err, "initializer of %v", x.Name)
	}

	return x, s.punct(";")
}

func (s *Parser) parseAssign(ctx context.Context) (x ast.Assign, err error) {
	x.Pos = s.tok.Pos

	x.Name, err = s.ident()
	if err != nil {
		return x, err
	}

	err = s.op("=")
	if err != nil {
		return x, err
	}

	x.Value, err = s.parseExpr(ctx)
	if err != nil {
		return x, errors.Wrap(err, "value of %v", x.Name)
	}

	return x, s.punct(";")
}

func (s *Parser) parseIf(ctx context.Context) (x ast.If, err error) {
	x.Pos = s.tok.Pos

	err = s.next() // IF
	if err != nil {
		return x, err
	}

	x.Cond, err = s.parseComparison(ctx)
	if err != nil {
		return x, errors.Wrap(err, "condition")
	}

	x.Then, err = s.parseBlock(ctx)
	if err != nil {
		return x, errors.Wrap(err, "then block")
	}

	if s.tok.Kind != Keyword || s.tok.Lex != "ELSE" {
		return x, nil
	}

	err = s.next() // ELSE
	if err != nil {
		return x, err
	}

	x.Else, err = s.parseBlock(ctx)
	if err != nil {
		return x, errors.Wrap(err, "else block")
	}

	return x, nil
}

func (s *Parser) parseBlock(ctx context.Context) (b *ast.Block, err error) {
	b = &ast.Block{Pos: s.tok.Pos}

	err = s.punct("{")
	if err != nil {
		return nil, err
	}

	for !(s.tok.Kind == Punct && s.tok.Lex == "}") {
		if s.tok.Kind == EOF {
			return nil, s.expected("statement", "}")
		}

		x, err := s.parseStmt(ctx)
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, x)
	}

	return b, s.punct("}")
}

// parseComparison is used only as an if condition.
func (s *Parser) parseComparison(ctx context.Context) (x ast.Expr, err error) {
	x, err = s.parseExpr(ctx)
	if err != nil {
		return nil, err
	}

	if s.tok.Kind != Op || !ast.Op(s.tok.Lex).Relational() {
		return x, nil
	}

	b := ast.Binary{
		Pos:  s.tok.Pos,
		Op:   ast.Op(s.tok.Lex),
		Left: x,
	}

	err = s.next()
	if err != nil {
		return nil, err
	}

	b.Right, err = s.parseExpr(ctx)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Parser) parseExpr(ctx context.Context) (x ast.Expr, err error) {
	x, err = s.parseTerm(ctx)
	if err != nil {
		return nil, err
	}

	for s.tok.Kind == Op && (s.tok.Lex == "+" || s.tok.Lex == "-") {
		b := ast.Binary{
			Pos:  s.tok.Pos,
			Op:   ast.Op(s.tok.Lex),
			Left: x,
		}

		err = s.next()
		if err != nil {
			return nil, err
		}

		b.Right, err = s.parseTerm(ctx)
		if err != nil {
			return nil, err
		}

		x = b
	}

	return x, nil
}

func (s *Parser) parseTerm(ctx context.Context) (ast.Expr, error) {
	switch s.tok.Kind {
	case Ident:
		x := ast.Ref{Pos: s.tok.Pos, Name: s.tok.Lex}

		return x, s.next()
	case Int:
		v, err := strconv.Atoi(s.tok.Lex)
		if err != nil {
			return nil, errors.Wrap(err, "integer literal at %d:%d", s.tok.Pos.Line, s.tok.Pos.Col)
		}

		x := ast.Lit{Pos: s.tok.Pos, Value: v}

		return x, s.next()
	}

	return nil, s.expected("identifier", "integer")
}

func (s *Parser) ident() (string, error) {
	if s.tok.Kind != Ident {
		return "", s.expected("identifier")
	}

	name := s.tok.Lex

	return name, s.next()
}

func (s *Parser) op(lex string) error {
	if s.tok.Kind != Op || s.tok.Lex != lex {
		return s.expected(lex)
	}

	return s.next()
}

func (s *Parser) punct(lex string) error {
	if s.tok.Kind != Punct || s.tok.Lex != lex {
		return s.expected(lex)
	}

	return s.next()
}

func (s *Parser) next() error {
	tok, err := s.l.Next()
	if err != nil {
		return err
	}

	s.tok = tok

	return nil
}

func (s *Parser) expected(want ...string) error {
	found := s.tok.Lex
	if s.tok.Kind == EOF {
		found = "EOF"
	}

	return ParseError{
		Pos:      s.tok.Pos,
		Expected: want,
		Found:    found,
	}
}

func (e ParseError) Error() string {
	return fmt.Sprintf("expected %v, found %q at %d:%d", strings.Join(e.Expected, " or "), e.Found, e.Pos.Line, e.Pos.Col)
}
