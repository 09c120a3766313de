// Package parser builds a syntax tree from a token stream using recursive
// descent. Recovery is explicit control flow, not exceptions: when a
// production cannot continue, the parser records a diagnostic, splices an
// ErrorNode, and resynchronizes at the next statement boundary. One
// malformed line therefore costs one ErrorNode, never the rest of the file.
package parser

import (
	"fmt"

	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Parser consumes a token stream produced by the lexer. Single-use, no
// cross-call state.
type Parser struct {
	toks  []token.Token
	pos   int
	diags []report.Diagnostic
}

// Parse builds the tree for a full token stream. The returned root is never
// nil, even for pathological input; resynchronization is bounded by the
// stream length.
func Parse(toks []token.Token) (*ast.Program, []report.Diagnostic) {
	p := New(toks)
	return p.ParseProgram(), p.Diagnostics()
}

// New creates a parser over toks. The stream must end with an EOF token;
// one is appended if missing.
func New(toks []token.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		toks = append(toks, token.Token{Type: token.EOF, Kind: token.KindEOF})
	}
	return &Parser{toks: toks}
}

// Diagnostics returns the parse diagnostics accumulated so far.
func (p *Parser) Diagnostics() []report.Diagnostic {
	return p.diags
}

// ParseProgram parses top-level declarations until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		start := p.pos
		if p.atClassStart() {
			prog.Classes = append(prog.Classes, p.parseClass())
		} else {
			// Fragment submissions: bare statements outside any class.
			prog.Orphans = append(prog.Orphans, p.parseStmt())
		}
		// Hard progress guarantee: never loop on the same token.
		if p.pos == start {
			p.advance()
		}
	}
	if len(p.toks) > 0 {
		prog.Loc = token.Span{Start: p.toks[0].Pos, End: p.toks[len(p.toks)-1].Span().End}
	}
	return prog
}

// atClassStart reports whether modifiers followed by 'class' begin here.
func (p *Parser) atClassStart() bool {
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case token.Public, token.Private, token.Protected, token.Static, token.Final:
			continue
		case token.Class:
			return true
		default:
			return false
		}
	}
	return false
}

func (p *Parser) parseClass() *ast.ClassDecl {
	start := p.cur()
	p.skipModifiers()
	p.expect(token.Class, "class declaration")

	name := "?"
	if p.at(token.Ident) {
		name = p.cur().Lexeme
		p.advance()
	} else {
		p.errorf(p.cur(), "expected class name, found %s", p.describeCur())
	}

	decl := &ast.ClassDecl{Name: name}
	if !p.expect(token.LBrace, "class body") {
		p.syncTo(token.LBrace)
		if !p.at(token.LBrace) {
			decl.Loc = p.spanBetween(start, p.prev())
			return decl
		}
		p.advance()
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		memberStart := p.pos
		p.parseMember(decl)
		if p.pos == memberStart {
			p.advance()
		}
	}
	p.expect(token.RBrace, "class body")
	decl.Loc = p.spanBetween(start, p.prev())
	return decl
}

func (p *Parser) skipModifiers() {
	for {
		switch p.cur().Type {
		case token.Public, token.Private, token.Protected, token.Static, token.Final:
			p.advance()
		default:
			return
		}
	}
}

// parseMember parses one field or method and appends it to decl.
func (p *Parser) parseMember(decl *ast.ClassDecl) {
	start := p.cur()
	p.skipModifiers()

	typ, ok := p.parseType()
	if !ok {
		p.errorf(p.cur(), "expected member declaration, found %s", p.describeCur())
		p.synchronize()
		return
	}

	name := "?"
	if p.at(token.Ident) {
		name = p.cur().Lexeme
		p.advance()
	} else if p.at(token.LParen) && typ != "" {
		// Constructor style Name(...): the type name is the method name.
		name = typ
		typ = ""
	} else {
		p.errorf(p.cur(), "expected member name, found %s", p.describeCur())
		p.synchronize()
		return
	}

	if p.at(token.LParen) {
		decl.Methods = append(decl.Methods, p.parseMethodRest(name, typ, start))
		return
	}

	// Field declaration.
	f := &ast.VariableDecl{Type: typ, Name: name}
	if p.at(token.Assign) {
		p.advance()
		f.Init = p.parseExpr()
	}
	p.expect(token.Semicolon, "field declaration")
	f.Loc = p.spanBetween(start, p.prev())
	decl.Fields = append(decl.Fields, f)
}

func (p *Parser) parseMethodRest(name, returnType string, start token.Token) *ast.MethodDecl {
	m := &ast.MethodDecl{Name: name, ReturnType: returnType}
	p.expect(token.LParen, "parameter list")
	for !p.at(token.RParen) && !p.at(token.EOF) {
		ptype, ok := p.parseType()
		if !ok {
			p.errorf(p.cur(), "expected parameter type, found %s", p.describeCur())
			p.syncTo(token.RParen, token.LBrace, token.Semicolon)
			break
		}
		pname := ""
		if p.at(token.Ident) {
			pname = p.cur().Lexeme
			p.advance()
		}
		m.Params = append(m.Params, ast.Param{Type: ptype, Name: pname})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RParen, "parameter list")

	if p.at(token.LBrace) {
		m.Body = p.parseBlock()
	} else {
		p.errorf(p.cur(), "expected method body, found %s", p.describeCur())
		p.synchronize()
	}
	m.Loc = p.spanBetween(start, p.prev())
	return m
}

// parseType consumes a primitive keyword or identifier type, with any
// trailing [] pairs. Returns ok=false without consuming when the current
// token cannot start a type.
func (p *Parser) parseType() (string, bool) {
	t := p.cur()
	if !t.Type.IsTypeKeyword() && t.Type != token.Ident {
		return "", false
	}
	name := t.Lexeme
	p.advance()
	for p.at(token.LBracket) && p.peek(1).Type == token.RBracket {
		p.advance()
		p.advance()
		name += "[]"
	}
	return name, true
}

// --- statements ---

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Type {
	case token.LBrace:
		return p.parseBlock()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Return:
		return p.parseReturn()
	case token.Break:
		tok := p.cur()
		p.advance()
		p.expect(token.Semicolon, "break statement")
		return &ast.BreakStmt{Loc: p.spanBetween(tok, p.prev())}
	case token.Continue:
		tok := p.cur()
		p.advance()
		p.expect(token.Semicolon, "continue statement")
		return &ast.ContinueStmt{Loc: p.spanBetween(tok, p.prev())}
	case token.Semicolon:
		tok := p.cur()
		p.advance()
		return &ast.Block{Loc: tok.Span()} // empty statement
	case token.Class, token.Public, token.Private, token.Protected:
		return p.errorStmt("unexpected %s in statement position", p.describeCur())
	default:
		if p.atVarDecl() {
			return p.parseVarDecl()
		}
		return p.parseExprStmt()
	}
}

// atVarDecl decides declaration vs expression statement with bounded
// lookahead: a primitive type keyword always starts a declaration, and an
// identifier does when another identifier (or []) follows, as in
// "Scanner in" or "String[] args".
func (p *Parser) atVarDecl() bool {
	t := p.cur()
	if t.Type.IsTypeKeyword() {
		return t.Type != token.Void || p.peek(1).Type == token.Ident
	}
	if t.Type != token.Ident {
		return false
	}
	next := p.peek(1)
	if next.Type == token.Ident {
		return true
	}
	return next.Type == token.LBracket && p.peek(2).Type == token.RBracket && p.peek(3).Type == token.Ident
}

func (p *Parser) parseVarDecl() ast.Stmt {
	start := p.cur()
	typ, _ := p.parseType()

	name := "?"
	if p.at(token.Ident) {
		name = p.cur().Lexeme
		p.advance()
	} else {
		return p.errorStmt("expected variable name, found %s", p.describeCur())
	}

	v := &ast.VariableDecl{Type: typ, Name: name}
	if p.at(token.Assign) {
		p.advance()
		v.Init = p.parseExpr()
		if containsError(v.Init) {
			p.synchronize()
			return &ast.ErrorNode{Message: "malformed initializer", Loc: p.spanBetween(start, p.prev())}
		}
	}
	if !p.expect(token.Semicolon, "variable declaration") {
		p.synchronize()
	}
	v.Loc = p.spanBetween(start, p.prev())
	return v
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur()
	b := &ast.Block{}
	p.expect(token.LBrace, "block")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmtStart := p.pos
		b.Stmts = append(b.Stmts, p.parseStmt())
		if p.pos == stmtStart {
			p.advance()
		}
	}
	p.expect(token.RBrace, "block")
	b.Loc = p.spanBetween(start, p.prev())
	return b
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur()
	p.advance() // if
	if !p.expect(token.LParen, "if condition") {
		return p.recoverStmt(start, "malformed if statement")
	}
	cond := p.parseExpr()
	if containsError(cond) {
		return p.recoverStmt(start, "malformed if condition")
	}
	if !p.expect(token.RParen, "if condition") {
		return p.recoverStmt(start, "malformed if condition")
	}
	then := p.parseStmt()

	s := &ast.IfStmt{Cond: cond, Then: then}
	// Dangling else binds here, to the nearest unmatched if.
	if p.at(token.Else) {
		p.advance()
		s.Else = p.parseStmt()
	}
	s.Loc = p.spanBetween(start, p.prev())
	return s
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur()
	p.advance() // while
	if !p.expect(token.LParen, "while condition") {
		return p.recoverStmt(start, "malformed while statement")
	}
	cond := p.parseExpr()
	if containsError(cond) {
		return p.recoverStmt(start, "malformed while condition")
	}
	if !p.expect(token.RParen, "while condition") {
		return p.recoverStmt(start, "malformed while condition")
	}
	body := p.parseStmt()
	return &ast.WhileStmt{Cond: cond, Body: body, Loc: p.spanBetween(start, p.prev())}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur()
	p.advance() // for
	if !p.expect(token.LParen, "for clause") {
		return p.recoverStmt(start, "malformed for statement")
	}

	s := &ast.ForStmt{}
	if p.at(token.Semicolon) {
		p.advance()
	} else if p.atVarDecl() {
		s.Init = p.parseVarDecl() // consumes its trailing semicolon
	} else {
		x := p.parseExpr()
		s.Init = &ast.ExprStmt{X: x, Loc: x.Span()}
		if !p.expect(token.Semicolon, "for clause") {
			return p.recoverStmt(start, "malformed for initializer")
		}
	}

	if !p.at(token.Semicolon) {
		s.Cond = p.parseExpr()
	}
	if !p.expect(token.Semicolon, "for clause") {
		return p.recoverStmt(start, "malformed for condition")
	}

	if !p.at(token.RParen) {
		s.Post = p.parseExpr()
	}
	if !p.expect(token.RParen, "for clause") {
		return p.recoverStmt(start, "malformed for update")
	}

	s.Body = p.parseStmt()
	s.Loc = p.spanBetween(start, p.prev())
	return s
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur()
	p.advance() // return
	s := &ast.ReturnStmt{}
	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
		s.Value = p.parseExpr()
	}
	if !p.expect(token.Semicolon, "return statement") {
		p.synchronize()
	}
	s.Loc = p.spanBetween(start, p.prev())
	return s
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur()
	x := p.parseExpr()
	if containsError(x) {
		p.synchronize()
		return &ast.ErrorNode{Message: "malformed expression statement", Loc: p.spanBetween(start, p.prev())}
	}
	if !p.expect(token.Semicolon, "statement") {
		p.synchronize()
	}
	return &ast.ExprStmt{X: x, Loc: p.spanBetween(start, p.prev())}
}

// --- expressions, conventional C-family precedence ---

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

// parseAssign handles =, +=, -=, *=, /= right-associatively.
func (p *Parser) parseAssign() ast.Expr {
	left := p.parseOr()
	switch p.cur().Type {
	case token.Assign, token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq:
		op := p.cur().Type
		p.advance()
		right := p.parseAssign()
		return &ast.AssignExpr{
			Op: op, Target: left, Value: right,
			Loc: token.Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseBinaryLevel(p.parseAnd, token.OrOr)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseBinaryLevel(p.parseEquality, token.AndAnd)
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinaryLevel(p.parseRelational, token.Eq, token.NotEq)
}

func (p *Parser) parseRelational() ast.Expr {
	return p.parseBinaryLevel(p.parseAdditive, token.Less, token.LessEq, token.Greater, token.GreaterEq)
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinaryLevel(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinaryLevel(p.parseUnary, token.Star, token.Slash, token.Percent)
}

// parseBinaryLevel builds one left-associative precedence level.
func (p *Parser) parseBinaryLevel(next func() ast.Expr, ops ...token.Type) ast.Expr {
	left := next()
	for {
		matched := false
		for _, op := range ops {
			if p.at(op) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		op := p.cur().Type
		p.advance()
		right := next()
		left = &ast.BinaryExpr{
			Op: op, Left: left, Right: right,
			Loc: token.Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Type {
	case token.Minus, token.Plus, token.Not, token.PlusPlus, token.MinusMinus:
		tok := p.cur()
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: tok.Type, X: x, Loc: token.Span{Start: tok.Pos, End: x.Span().End}}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Type {
		case token.Dot:
			p.advance()
			if !p.at(token.Ident) {
				p.errorf(p.cur(), "expected member name after '.', found %s", p.describeCur())
				return &ast.ErrorNode{Message: "missing member name", Loc: p.cur().Span()}
			}
			name := p.cur().Lexeme
			p.advance()
			x = &ast.SelectorExpr{X: x, Name: name, Loc: token.Span{Start: x.Span().Start, End: p.prev().Span().End}}
		case token.LParen:
			x = p.parseCallArgs(x)
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket, "index expression")
			x = &ast.IndexExpr{X: x, Index: idx, Loc: token.Span{Start: x.Span().Start, End: p.prev().Span().End}}
		case token.PlusPlus, token.MinusMinus:
			tok := p.cur()
			p.advance()
			x = &ast.UnaryExpr{Op: tok.Type, X: x, Postfix: true, Loc: token.Span{Start: x.Span().Start, End: tok.Span().End}}
		default:
			return x
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expr) ast.Expr {
	p.advance() // (
	call := &ast.CallExpr{Callee: callee}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg := p.parseExpr()
		call.Args = append(call.Args, arg)
		if _, bad := arg.(*ast.ErrorNode); bad {
			break
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RParen, "call arguments")
	call.Loc = token.Span{Start: callee.Span().Start, End: p.prev().Span().End}
	return call
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch {
	case t.Type.IsLiteral():
		p.advance()
		return &ast.Literal{Type: t.Type, Value: t.Lexeme, Loc: t.Span()}
	case t.Type == token.Ident:
		p.advance()
		return &ast.Identifier{Name: t.Lexeme, Loc: t.Span()}
	case t.Type == token.New:
		return p.parseNew()
	case t.Type == token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen, "parenthesized expression")
		return x
	default:
		// Do not consume: the enclosing statement decides how to recover.
		p.errorf(t, "unexpected %s in expression", p.describeCur())
		return &ast.ErrorNode{Message: fmt.Sprintf("unexpected %s token", t.Kind), Loc: t.Span()}
	}
}

// parseNew parses a constructor call or array allocation. Both surface as a
// CallExpr on the type name, which is all the analysis passes need.
func (p *Parser) parseNew() ast.Expr {
	start := p.cur()
	p.advance() // new
	t := p.cur()
	if !t.Type.IsTypeKeyword() && t.Type != token.Ident {
		p.errorf(t, "expected type after 'new', found %s", p.describeCur())
		return &ast.ErrorNode{Message: "malformed allocation", Loc: t.Span()}
	}
	p.advance()
	callee := &ast.Identifier{Name: t.Lexeme, Loc: t.Span()}
	if p.at(token.LBracket) {
		p.advance()
		size := p.parseExpr()
		p.expect(token.RBracket, "array allocation")
		return &ast.CallExpr{
			Callee: callee, Args: []ast.Expr{size},
			Loc: token.Span{Start: start.Pos, End: p.prev().Span().End},
		}
	}
	if p.at(token.LParen) {
		call := p.parseCallArgs(callee)
		if c, ok := call.(*ast.CallExpr); ok {
			c.Loc.Start = start.Pos
		}
		return call
	}
	return callee
}

// --- recovery ---

// containsError reports whether an ErrorNode appears anywhere in e.
// Error nodes bubble up to the enclosing statement so that one bad line
// produces exactly one error node in the tree.
func containsError(e ast.Expr) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.ErrorNode); ok {
			found = true
			return false
		}
		return !found
	})
	return found
}

// synchronize skips tokens until a statement boundary: just past a
// semicolon, or in front of a brace, a statement-leading keyword, or a
// type keyword that opens a declaration. It always makes progress when
// not already at a boundary.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		t := p.cur().Type
		if t.IsTypeKeyword() {
			return
		}
		switch t {
		case token.RBrace, token.LBrace, token.If, token.While, token.For,
			token.Return, token.Break, token.Continue, token.Class:
			return
		}
		p.advance()
	}
}

// syncTo skips tokens until one of the given types (or EOF) is current.
func (p *Parser) syncTo(types ...token.Type) {
	for !p.at(token.EOF) {
		for _, t := range types {
			if p.at(t) {
				return
			}
		}
		p.advance()
	}
}

// recoverStmt resynchronizes and returns an ErrorNode covering the skipped
// region.
func (p *Parser) recoverStmt(start token.Token, msg string) ast.Stmt {
	p.synchronize()
	return &ast.ErrorNode{Message: msg, Loc: p.spanBetween(start, p.prev())}
}

func (p *Parser) errorStmt(format string, args ...any) ast.Stmt {
	t := p.cur()
	p.errorf(t, format, args...)
	p.synchronize()
	return &ast.ErrorNode{Message: fmt.Sprintf(format, args...), Loc: p.spanBetween(t, p.prev())}
}

// --- token plumbing ---

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) at(t token.Type) bool {
	return p.cur().Type == t
}

func (p *Parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

// expect consumes the given token type, or records a diagnostic and leaves
// the position unchanged.
func (p *Parser) expect(t token.Type, context string) bool {
	if p.at(t) {
		p.advance()
		return true
	}
	p.errorf(p.cur(), "expected %q in %s, found %s", t.String(), context, p.describeCur())
	return false
}

func (p *Parser) describeCur() string {
	t := p.cur()
	if t.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

func (p *Parser) errorf(at token.Token, format string, args ...any) {
	p.diags = append(p.diags, report.Diagnostic{
		Severity: report.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     at.Span(),
		Stage:    "parse",
	})
}

func (p *Parser) spanBetween(start, end token.Token) token.Span {
	if end.Pos.Offset < start.Pos.Offset {
		return start.Span()
	}
	return token.Span{Start: start.Pos, End: end.Span().End}
}
