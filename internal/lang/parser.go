package lang

import (
	"fmt"
	"strings"
)

// ParseError reports the first syntax error in a file. Line is 1-based,
// Col is 0-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse builds the syntax tree for one Solidity source file. It stops at
// the first syntax error; recovery is the pipeline's job (the file becomes
// a parse-failure diagnostic).
func Parse(src string) (*SourceUnit, error) {
	toks := Tokenize(src)

	if last := toks[len(toks)-1]; last.Kind == TokenError {
		return nil, &ParseError{Line: last.Span.Line, Col: last.Span.Col, Msg: last.Text}
	}

	p := &parser{src: src, toks: toks}
	unit := p.parseSourceUnit()

	if p.err != nil {
		return nil, p.err
	}

	return unit, nil
}

type parser struct {
	src  string
	toks []Token
	i    int
	err  *ParseError
}

func (p *parser) cur() Token {
	return p.toks[p.i]
}

func (p *parser) peek(ahead int) Token {
	idx := p.i + ahead
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}

	return p.toks[idx]
}

func (p *parser) next() Token {
	tok := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}

	return tok
}

func (p *parser) failed() bool {
	return p.err != nil
}

func (p *parser) fail(format string, args ...any) {
	if p.err != nil {
		return
	}

	tok := p.cur()
	p.err = &ParseError{Line: tok.Span.Line, Col: tok.Span.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) accept(punct string) bool {
	if p.cur().IsPunct(punct) {
		p.next()
		return true
	}

	return false
}

func (p *parser) acceptWord(word string) bool {
	if p.cur().IsWord(word) {
		p.next()
		return true
	}

	return false
}

func (p *parser) expect(punct string) Token {
	if p.cur().IsPunct(punct) {
		return p.next()
	}

	p.fail("expected %q, found %s", punct, p.cur())

	return p.cur()
}

func (p *parser) expectIdent() Token {
	if p.cur().Kind == TokenIdent {
		return p.next()
	}

	p.fail("expected identifier, found %s", p.cur())

	return p.cur()
}

// identPath parses a dotted name like A.B.C and returns its text.
func (p *parser) identPath() (string, Span) {
	first := p.expectIdent()
	name := first.Text
	span := first.Span

	for p.cur().IsPunct(".") && p.peek(1).Kind == TokenIdent {
		p.next()
		part := p.next()
		name += "." + part.Text
		span = span.Join(part.Span)
	}

	return name, span
}

func (p *parser) parseSourceUnit() *SourceUnit {
	unit := &SourceUnit{}

	if len(p.toks) > 0 {
		unit.Span = p.toks[0].Span
	}

	for !p.failed() && p.cur().Kind != TokenEOF {
		item := p.parseTopItem()
		if item != nil {
			unit.Items = append(unit.Items, item)
			unit.Span = unit.Span.Join(item.Pos())
		}
	}

	return unit
}

func (p *parser) parseTopItem() Node {
	tok := p.cur()

	if tok.Kind != TokenIdent {
		p.fail("expected declaration, found %s", tok)
		return nil
	}

	switch tok.Text {
	case "pragma":
		return p.parsePragma()
	case "import":
		return p.parseImport()
	case "abstract", "contract", "interface", "library":
		return p.parseContract()
	case "using":
		return p.parseUsing()
	case "struct":
		return p.parseStruct()
	case "enum":
		return p.parseEnum()
	case "event":
		return p.parseEvent()
	case "error":
		return p.parseError()
	case "function":
		return p.parseFunction(p.next())
	case "type":
		// User-defined value type: `type Price is uint128;`. The analyzer
		// has no use for the alias, but the declaration must parse.
		p.next()
		p.expectIdent()

		if !p.acceptWord("is") {
			p.fail("expected 'is' in type declaration")
			return nil
		}

		p.parseTypeRef()
		p.expect(";")

		return nil
	}

	// Anything else at file level is a constant declaration.
	return p.parseVarDecl()
}

func (p *parser) parsePragma() Node {
	start := p.next() // pragma
	name := p.expectIdent()

	if p.failed() {
		return nil
	}

	valueStart := p.cur().Span.Offset

	for !p.cur().IsPunct(";") {
		if p.cur().Kind == TokenEOF {
			p.fail("unterminated pragma directive")
			return nil
		}

		p.next()
	}

	semi := p.next()
	value := strings.TrimSpace(p.src[valueStart:semi.Span.Offset])

	return &PragmaDirective{
		Name:  name.Text,
		Value: value,
		Span:  start.Span.Join(semi.Span),
	}
}

func (p *parser) parseImport() Node {
	start := p.next() // import
	directive := &ImportDirective{}

	switch {
	case p.cur().Kind == TokenString:
		path := p.next()
		directive.Path = path.Text

		if p.acceptWord("as") {
			directive.Alias = p.expectIdent().Text
		}
	case p.cur().IsPunct("*"):
		p.next()

		if !p.acceptWord("as") {
			p.fail("expected 'as' after import *")
			return nil
		}

		directive.Alias = p.expectIdent().Text

		if !p.acceptWord("from") {
			p.fail("expected 'from' in import directive")
			return nil
		}

		if p.cur().Kind != TokenString {
			p.fail("expected import path string, found %s", p.cur())
			return nil
		}

		directive.Path = p.next().Text
	case p.cur().IsPunct("{"):
		p.next()

		for !p.failed() && !p.cur().IsPunct("}") {
			symbol := ImportSymbol{Name: p.expectIdent().Text}

			if p.acceptWord("as") {
				symbol.Alias = p.expectIdent().Text
			}

			directive.Symbols = append(directive.Symbols, symbol)

			if !p.accept(",") {
				break
			}
		}

		p.expect("}")

		if !p.acceptWord("from") {
			p.fail("expected 'from' in import directive")
			return nil
		}

		if p.cur().Kind != TokenString {
			p.fail("expected import path string, found %s", p.cur())
			return nil
		}

		directive.Path = p.next().Text
	default:
		p.fail("malformed import directive")
		return nil
	}

	semi := p.expect(";")
	directive.Span = start.Span.Join(semi.Span)

	return directive
}

func (p *parser) parseContract() Node {
	start := p.cur()
	decl := &ContractDecl{}

	if p.acceptWord("abstract") {
		decl.Abstract = true
	}

	switch {
	case p.acceptWord("contract"):
		decl.CKind = ContractPlain
	case p.acceptWord("interface"):
		decl.CKind = ContractInterface
	case p.acceptWord("library"):
		decl.CKind = ContractLibrary
	default:
		p.fail("expected contract, interface, or library")
		return nil
	}

	name := p.expectIdent()
	decl.Name = name.Text
	decl.NameSpan = name.Span

	if p.acceptWord("is") {
		for !p.failed() {
			baseName, baseSpan := p.identPath()
			base := &BaseRef{Name: baseName, Span: baseSpan}

			if p.accept("(") {
				base.Args = p.parseExprList(")")
				p.expect(")")
			}

			decl.Bases = append(decl.Bases, base)

			if !p.accept(",") {
				break
			}
		}
	}

	p.expect("{")

	for !p.failed() && !p.cur().IsPunct("}") {
		if p.cur().Kind == TokenEOF {
			p.fail("unterminated contract body")
			return nil
		}

		item := p.parseContractItem()
		if item != nil {
			decl.Items = append(decl.Items, item)
		}
	}

	closing := p.expect("}")
	decl.Span = start.Span.Join(closing.Span)

	return decl
}

func (p *parser) parseContractItem() Node {
	tok := p.cur()

	if tok.Kind != TokenIdent {
		p.fail("expected contract member, found %s", tok)
		return nil
	}

	switch tok.Text {
	case "function", "constructor", "receive", "fallback", "modifier":
		return p.parseFunction(p.next())
	case "struct":
		return p.parseStruct()
	case "enum":
		return p.parseEnum()
	case "event":
		return p.parseEvent()
	case "error":
		return p.parseError()
	case "using":
		return p.parseUsing()
	}

	return p.parseVarDecl()
}

func (p *parser) parseUsing() Node {
	start := p.next() // using
	library, _ := p.identPath()

	decl := &UsingDecl{Library: library}

	if !p.acceptWord("for") {
		p.fail("expected 'for' in using directive")
		return nil
	}

	if p.accept("*") {
		decl.Target = "*"
	} else {
		decl.Target = p.parseTypeRef().Text
	}

	// `using ... for T global` is accepted and ignored.
	p.acceptWord("global")

	semi := p.expect(";")
	decl.Span = start.Span.Join(semi.Span)

	return decl
}

func (p *parser) parseStruct() Node {
	start := p.next() // struct
	name := p.expectIdent()
	decl := &StructDecl{Name: name.Text}

	p.expect("{")

	for !p.failed() && !p.cur().IsPunct("}") {
		fieldType := p.parseTypeRef()
		fieldName := p.expectIdent()
		p.expect(";")

		decl.Fields = append(decl.Fields, &Param{
			Name: fieldName.Text,
			Type: fieldType,
			Span: fieldType.Span.Join(fieldName.Span),
		})
	}

	closing := p.expect("}")
	decl.Span = start.Span.Join(closing.Span)

	return decl
}

func (p *parser) parseEnum() Node {
	start := p.next() // enum
	name := p.expectIdent()
	decl := &EnumDecl{Name: name.Text}

	p.expect("{")

	for !p.failed() && !p.cur().IsPunct("}") {
		decl.Values = append(decl.Values, p.expectIdent().Text)

		if !p.accept(",") {
			break
		}
	}

	closing := p.expect("}")
	decl.Span = start.Span.Join(closing.Span)

	return decl
}

func (p *parser) parseEvent() Node {
	start := p.next() // event
	name := p.expectIdent()
	decl := &EventDecl{Name: name.Text}

	p.expect("(")
	decl.Params = p.parseParamList(true)
	p.expect(")")

	decl.Anonymous = p.acceptWord("anonymous")

	semi := p.expect(";")
	decl.Span = start.Span.Join(semi.Span)

	return decl
}

func (p *parser) parseError() Node {
	start := p.next() // error
	name := p.expectIdent()
	decl := &ErrorDecl{Name: name.Text}

	p.expect("(")
	decl.Params = p.parseParamList(false)
	p.expect(")")

	semi := p.expect(";")
	decl.Span = start.Span.Join(semi.Span)

	return decl
}

// parseVarDecl parses a state variable or file-level constant.
func (p *parser) parseVarDecl() Node {
	start := p.cur()
	varType := p.parseTypeRef()

	if p.failed() {
		return nil
	}

	decl := &VarDecl{Type: varType}

	for !p.failed() {
		tok := p.cur()
		if tok.Kind != TokenIdent {
			break
		}

		switch tok.Text {
		case "public", "private", "internal":
			decl.Visibility = tok.Text
			p.next()
		case "constant":
			decl.Constant = true
			p.next()
		case "immutable":
			decl.Immutable = true
			p.next()
		case "override":
			decl.Override = true
			p.next()

			if p.accept("(") {
				for !p.failed() && !p.cur().IsPunct(")") {
					p.identPath()

					if !p.accept(",") {
						break
					}
				}

				p.expect(")")
			}
		case "transient":
			p.next()
		default:
			name := p.next()
			decl.Name = name.Text
			decl.NameSpan = name.Span

			if p.accept("=") {
				decl.Value = p.parseExpr()
			}

			semi := p.expect(";")
			decl.Span = start.Span.Join(semi.Span)

			return decl
		}
	}

	p.fail("expected variable name")

	return nil
}

func (p *parser) parseFunction(keyword Token) Node {
	decl := &FunctionDecl{}

	switch keyword.Text {
	case "constructor":
		decl.FKind = FuncConstructor
	case "receive":
		decl.FKind = FuncReceive
	case "fallback":
		decl.FKind = FuncFallback
	case "modifier":
		decl.FKind = FuncModifier
	default:
		decl.FKind = FuncPlain
	}

	if decl.FKind == FuncPlain || decl.FKind == FuncModifier {
		name := p.expectIdent()
		decl.Name = name.Text
		decl.NameSpan = name.Span
	} else {
		decl.Name = keyword.Text
		decl.NameSpan = keyword.Span
	}

	if p.cur().IsPunct("(") {
		p.next()
		decl.Params = p.parseParamList(false)
		p.expect(")")
	} else if decl.FKind != FuncModifier {
		p.fail("expected parameter list")
		return nil
	}

	for !p.failed() {
		tok := p.cur()
		if tok.Kind != TokenIdent {
			break
		}

		switch tok.Text {
		case "public", "private", "internal", "external":
			decl.Visibility = tok.Text
			p.next()
		case "pure", "view", "payable":
			decl.Mutability = tok.Text
			p.next()
		case "virtual":
			decl.Virtual = true
			p.next()
		case "override":
			decl.Override = true
			p.next()

			if p.accept("(") {
				for !p.failed() && !p.cur().IsPunct(")") {
					target, _ := p.identPath()
					decl.Overrides = append(decl.Overrides, target)

					if !p.accept(",") {
						break
					}
				}

				p.expect(")")
			}
		case "returns":
			p.next()
			p.expect("(")
			decl.Returns = p.parseParamList(false)
			p.expect(")")
		default:
			modName, modSpan := p.identPath()
			mod := &ModifierRef{Name: modName, Span: modSpan}

			if p.accept("(") {
				mod.Args = p.parseExprList(")")
				p.expect(")")
			}

			decl.Modifiers = append(decl.Modifiers, mod)
		}
	}

	var end Span

	switch {
	case p.cur().IsPunct("{"):
		decl.Body = p.parseBlock(false)
		if decl.Body != nil {
			end = decl.Body.Span
		}
	case p.cur().IsPunct(";"):
		end = p.next().Span
	default:
		p.fail("expected function body or ';', found %s", p.cur())
		return nil
	}

	decl.Span = keyword.Span.Join(end)

	return decl
}

// parseParamList parses comma-separated parameters up to a closing paren,
// which the caller consumes. withIndexed allows the event `indexed` marker.
func (p *parser) parseParamList(withIndexed bool) []*Param {
	var params []*Param

	if p.cur().IsPunct(")") {
		return params
	}

	for !p.failed() {
		paramType := p.parseTypeRef()
		param := &Param{Type: paramType, Span: paramType.Span}

		for !p.failed() && p.cur().Kind == TokenIdent {
			tok := p.cur()

			switch {
			case tok.Text == "indexed" && withIndexed:
				param.Indexed = true
				p.next()
			case tok.Text == "memory" || tok.Text == "storage" || tok.Text == "calldata":
				param.Location = tok.Text
				p.next()
			default:
				name := p.next()
				param.Name = name.Text
				param.Span = param.Span.Join(name.Span)
			}

			if param.Name != "" {
				break
			}
		}

		params = append(params, param)

		if !p.accept(",") {
			break
		}
	}

	return params
}

// parseTypeRef parses a type annotation and reconstructs its canonical text.
func (p *parser) parseTypeRef() TypeRef {
	tok := p.cur()

	if tok.Kind != TokenIdent {
		p.fail("expected type, found %s", tok)
		return TypeRef{}
	}

	var text string
	span := tok.Span

	switch tok.Text {
	case "mapping":
		p.next()
		p.expect("(")
		key := p.parseTypeRef()

		// Named mapping keys (`mapping(address owner => uint256)`) are legal.
		if p.cur().Kind == TokenIdent {
			p.next()
		}

		p.expect("=>")
		value := p.parseTypeRef()

		if p.cur().Kind == TokenIdent {
			p.next()
		}

		closing := p.expect(")")
		text = "mapping(" + key.Text + " => " + value.Text + ")"
		span = span.Join(closing.Span)
	case "function":
		// Function types keep their raw spelling.
		start := tok.Span.Offset
		p.next()
		p.expect("(")
		depth := 1

		for !p.failed() && depth > 0 {
			switch {
			case p.cur().IsPunct("("):
				depth++
			case p.cur().IsPunct(")"):
				depth--
			case p.cur().Kind == TokenEOF:
				p.fail("unterminated function type")
				return TypeRef{}
			}

			span = span.Join(p.next().Span)
		}

		for p.cur().Kind == TokenIdent {
			switch p.cur().Text {
			case "internal", "external", "pure", "view", "payable":
				span = span.Join(p.next().Span)
			case "returns":
				span = span.Join(p.next().Span)
				p.expect("(")
				depth = 1

				for !p.failed() && depth > 0 {
					switch {
					case p.cur().IsPunct("("):
						depth++
					case p.cur().IsPunct(")"):
						depth--
					case p.cur().Kind == TokenEOF:
						p.fail("unterminated function type")
						return TypeRef{}
					}

					span = span.Join(p.next().Span)
				}
			default:
				text = normalizeTypeText(p.src[start:span.End])
				return p.parseArraySuffix(TypeRef{Text: text, Span: span})
			}
		}

		text = normalizeTypeText(p.src[start:span.End])
	default:
		name, nameSpan := p.identPath()
		text = name
		span = nameSpan

		if name == "address" && p.cur().IsWord("payable") {
			payable := p.next()
			text += " payable"
			span = span.Join(payable.Span)
		}
	}

	return p.parseArraySuffix(TypeRef{Text: text, Span: span})
}

func (p *parser) parseArraySuffix(base TypeRef) TypeRef {
	for !p.failed() && p.cur().IsPunct("[") {
		open := p.next()
		size := ""

		if !p.cur().IsPunct("]") {
			sizeStart := p.cur().Span.Offset
			expr := p.parseExpr()

			if expr != nil {
				size = strings.TrimSpace(p.src[sizeStart:expr.Pos().End])
			}
		}

		closing := p.expect("]")
		base.Text += "[" + size + "]"
		base.Span = base.Span.Join(open.Span).Join(closing.Span)
	}

	return base
}

func normalizeTypeText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Statements.

func (p *parser) parseBlock(unchecked bool) *BlockStmt {
	open := p.expect("{")
	block := &BlockStmt{Unchecked: unchecked}

	for !p.failed() && !p.cur().IsPunct("}") {
		if p.cur().Kind == TokenEOF {
			p.fail("unterminated block")
			return nil
		}

		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}

	closing := p.expect("}")
	block.Span = open.Span.Join(closing.Span)

	return block
}

func (p *parser) parseStatement() Stmt {
	tok := p.cur()

	if tok.IsPunct("{") {
		return p.parseBlock(false)
	}

	if tok.Kind == TokenIdent {
		switch tok.Text {
		case "unchecked":
			p.next()
			return p.parseBlock(true)
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "return":
			return p.parseReturn()
		case "emit":
			return p.parseEmit()
		case "revert":
			return p.parseRevert()
		case "try":
			return p.parseTry()
		case "break":
			start := p.next()
			semi := p.expect(";")

			return &BreakStmt{Span: start.Span.Join(semi.Span)}
		case "continue":
			start := p.next()
			semi := p.expect(";")

			return &ContinueStmt{Span: start.Span.Join(semi.Span)}
		case "assembly":
			return p.parseAssembly()
		case "_":
			if p.peek(1).IsPunct(";") {
				start := p.next()
				semi := p.next()

				return &PlaceholderStmt{Span: start.Span.Join(semi.Span)}
			}
		}
	}

	stmt := p.parseSimpleStatement()

	if p.failed() {
		return nil
	}

	semi := p.expect(";")

	switch s := stmt.(type) {
	case *VarDeclStmt:
		s.Span = s.Span.Join(semi.Span)
	case *ExprStmt:
		s.Span = s.Span.Join(semi.Span)
	}

	return stmt
}

func (p *parser) parseIf() Stmt {
	start := p.next() // if
	p.expect("(")
	cond := p.parseExpr()
	p.expect(")")

	then := p.parseStatement()
	stmt := &IfStmt{Cond: cond, Then: then}
	end := Span{}

	if then != nil {
		end = then.Pos()
	}

	if p.acceptWord("else") {
		stmt.Else = p.parseStatement()
		if stmt.Else != nil {
			end = stmt.Else.Pos()
		}
	}

	stmt.Span = start.Span.Join(end)

	return stmt
}

func (p *parser) parseFor() Stmt {
	start := p.next() // for
	p.expect("(")

	stmt := &ForStmt{}

	if !p.accept(";") {
		stmt.Init = p.parseSimpleStatement()
		p.expect(";")
	}

	if !p.cur().IsPunct(";") {
		stmt.Cond = p.parseExpr()
	}

	p.expect(";")

	if !p.cur().IsPunct(")") {
		stmt.Post = p.parseExpr()
	}

	p.expect(")")

	stmt.Body = p.parseStatement()
	end := Span{}

	if stmt.Body != nil {
		end = stmt.Body.Pos()
	}

	stmt.Span = start.Span.Join(end)

	return stmt
}

func (p *parser) parseWhile() Stmt {
	start := p.next() // while
	p.expect("(")
	cond := p.parseExpr()
	p.expect(")")

	body := p.parseStatement()
	end := Span{}

	if body != nil {
		end = body.Pos()
	}

	return &WhileStmt{Cond: cond, Body: body, Span: start.Span.Join(end)}
}

func (p *parser) parseDoWhile() Stmt {
	start := p.next() // do
	body := p.parseStatement()

	if !p.acceptWord("while") {
		p.fail("expected 'while' after do body")
		return nil
	}

	p.expect("(")
	cond := p.parseExpr()
	p.expect(")")
	semi := p.expect(";")

	return &DoWhileStmt{Body: body, Cond: cond, Span: start.Span.Join(semi.Span)}
}

func (p *parser) parseReturn() Stmt {
	start := p.next() // return
	stmt := &ReturnStmt{}

	if !p.cur().IsPunct(";") {
		stmt.Value = p.parseExpr()
	}

	semi := p.expect(";")
	stmt.Span = start.Span.Join(semi.Span)

	return stmt
}

func (p *parser) parseEmit() Stmt {
	start := p.next() // emit
	expr := p.parseExpr()

	call, ok := expr.(*CallExpr)
	if !ok {
		p.fail("emit requires an event call")
		return nil
	}

	semi := p.expect(";")

	return &EmitStmt{Call: call, Span: start.Span.Join(semi.Span)}
}

func (p *parser) parseRevert() Stmt {
	start := p.next() // revert
	stmt := &RevertStmt{}

	if p.cur().Kind == TokenIdent {
		stmt.Error, _ = p.identPath()
	}

	if p.accept("(") {
		stmt.Args = p.parseExprList(")")
		p.expect(")")
	}

	semi := p.expect(";")
	stmt.Span = start.Span.Join(semi.Span)

	return stmt
}

func (p *parser) parseTry() Stmt {
	start := p.next() // try
	stmt := &TryStmt{Call: p.parseExpr()}

	if p.acceptWord("returns") {
		p.expect("(")
		stmt.Returns = p.parseParamList(false)
		p.expect(")")
	}

	stmt.Body = p.parseBlock(false)
	end := Span{}

	if stmt.Body != nil {
		end = stmt.Body.Span
	}

	for p.acceptWord("catch") {
		clause := &CatchClause{}

		if p.cur().Kind == TokenIdent && !p.cur().IsWord("catch") {
			clause.Kind = p.next().Text
		}

		if p.accept("(") {
			clause.Params = p.parseParamList(false)
			p.expect(")")
		}

		clause.Body = p.parseBlock(false)

		if clause.Body != nil {
			clause.Span = clause.Body.Span
			end = clause.Body.Span
		}

		stmt.Catches = append(stmt.Catches, clause)

		if p.failed() {
			return nil
		}
	}

	stmt.Span = start.Span.Join(end)

	return stmt
}

func (p *parser) parseAssembly() Stmt {
	start := p.next() // assembly
	stmt := &AssemblyStmt{}

	if p.cur().Kind == TokenString {
		stmt.Flags = append(stmt.Flags, p.next().Text)
	} else if p.accept("(") {
		for !p.failed() && !p.cur().IsPunct(")") {
			if p.cur().Kind != TokenString {
				p.fail("expected assembly flag string")
				return nil
			}

			stmt.Flags = append(stmt.Flags, p.next().Text)

			if !p.accept(",") {
				break
			}
		}

		p.expect(")")
	}

	open := p.expect("{")
	depth := 1

	var closing Token

	for depth > 0 {
		tok := p.next()

		switch {
		case tok.Kind == TokenEOF:
			p.fail("unterminated assembly block")
			return nil
		case tok.IsPunct("{"):
			depth++
		case tok.IsPunct("}"):
			depth--
			closing = tok
		}
	}

	stmt.Body = p.src[open.Span.End:closing.Span.Offset]
	stmt.Span = start.Span.Join(closing.Span)

	return stmt
}

// parseSimpleStatement parses a declaration or expression statement without
// consuming the trailing semicolon.
func (p *parser) parseSimpleStatement() Stmt {
	if decl, ok := p.tryParseVarDeclStmt(); ok {
		return decl
	}

	if decl, ok := p.tryParseTupleDeclStmt(); ok {
		return decl
	}

	expr := p.parseExpr()

	if p.failed() || expr == nil {
		return nil
	}

	return &ExprStmt{X: expr, Span: expr.Pos()}
}

// tryParseVarDeclStmt attempts `Type [location] name [= expr]`, rolling
// back when the lookahead is actually an expression.
func (p *parser) tryParseVarDeclStmt() (Stmt, bool) {
	if p.cur().Kind != TokenIdent {
		return nil, false
	}

	save := p.i
	varType := p.parseTypeRef()

	if p.failed() {
		p.err = nil
		p.i = save

		return nil, false
	}

	local := &LocalVar{Type: varType, Span: varType.Span}

	if p.cur().Kind == TokenIdent {
		switch p.cur().Text {
		case "memory", "storage", "calldata":
			local.Location = p.next().Text
		}
	}

	if p.cur().Kind != TokenIdent {
		p.i = save
		return nil, false
	}

	name := p.next()

	if !p.cur().IsPunct("=") && !p.cur().IsPunct(";") {
		p.i = save
		return nil, false
	}

	local.Name = name.Text
	local.Span = local.Span.Join(name.Span)

	stmt := &VarDeclStmt{Vars: []*LocalVar{local}, Span: local.Span}

	if p.accept("=") {
		stmt.Value = p.parseExpr()
		if stmt.Value != nil {
			stmt.Span = stmt.Span.Join(stmt.Value.Pos())
		}
	}

	return stmt, true
}

// tryParseTupleDeclStmt attempts `(Type a, , Type c) = expr`.
func (p *parser) tryParseTupleDeclStmt() (Stmt, bool) {
	if !p.cur().IsPunct("(") {
		return nil, false
	}

	save := p.i
	open := p.next()
	stmt := &VarDeclStmt{Tuple: true}

	for !p.cur().IsPunct(")") {
		if p.cur().IsPunct(",") {
			p.next()
			stmt.Vars = append(stmt.Vars, nil)

			continue
		}

		if p.cur().Kind != TokenIdent {
			p.i = save
			return nil, false
		}

		varType := p.parseTypeRef()

		if p.failed() {
			p.err = nil
			p.i = save

			return nil, false
		}

		local := &LocalVar{Type: varType, Span: varType.Span}

		if p.cur().Kind == TokenIdent {
			switch p.cur().Text {
			case "memory", "storage", "calldata":
				local.Location = p.next().Text
			}
		}

		if p.cur().Kind != TokenIdent {
			p.i = save
			return nil, false
		}

		name := p.next()
		local.Name = name.Text
		local.Span = local.Span.Join(name.Span)
		stmt.Vars = append(stmt.Vars, local)

		if !p.cur().IsPunct(",") && !p.cur().IsPunct(")") {
			p.i = save
			return nil, false
		}

		p.accept(",")
	}

	closing := p.next() // ')'

	if !p.accept("=") {
		p.i = save
		return nil, false
	}

	stmt.Value = p.parseExpr()
	stmt.Span = open.Span.Join(closing.Span)

	if stmt.Value != nil {
		stmt.Span = stmt.Span.Join(stmt.Value.Pos())
	}

	return stmt, true
}

// Expressions.

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"|=": true, "&=": true, "^=": true, "<<=": true, ">>=": true,
}

var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

func (p *parser) parseExpr() Expr {
	return p.parseAssign()
}

func (p *parser) parseAssign() Expr {
	lhs := p.parseTernary()

	if p.failed() || lhs == nil {
		return lhs
	}

	tok := p.cur()
	if tok.Kind == TokenPunct && assignOps[tok.Text] {
		p.next()
		rhs := p.parseAssign()

		if rhs == nil {
			return nil
		}

		return &AssignExpr{Op: tok.Text, LHS: lhs, RHS: rhs, Span: lhs.Pos().Join(rhs.Pos())}
	}

	return lhs
}

func (p *parser) parseTernary() Expr {
	cond := p.parseBinary(1)

	if p.failed() || cond == nil || !p.cur().IsPunct("?") {
		return cond
	}

	p.next()
	then := p.parseExpr()
	p.expect(":")
	els := p.parseTernary()

	if then == nil || els == nil {
		return nil
	}

	return &ConditionalExpr{Cond: cond, Then: then, Else: els, Span: cond.Pos().Join(els.Pos())}
}

func (p *parser) parseBinary(minPrec int) Expr {
	lhs := p.parseUnary()

	for !p.failed() && lhs != nil {
		tok := p.cur()
		if tok.Kind != TokenPunct {
			return lhs
		}

		prec, ok := binaryPrec[tok.Text]
		if !ok || prec < minPrec {
			return lhs
		}

		p.next()

		// ** is right-associative; everything else is left-associative.
		nextPrec := prec + 1
		if tok.Text == "**" {
			nextPrec = prec
		}

		rhs := p.parseBinary(nextPrec)
		if rhs == nil {
			return nil
		}

		lhs = &BinaryExpr{Op: tok.Text, X: lhs, Y: rhs, Span: lhs.Pos().Join(rhs.Pos())}
	}

	return lhs
}

func (p *parser) parseUnary() Expr {
	tok := p.cur()

	if tok.Kind == TokenPunct {
		switch tok.Text {
		case "!", "~", "-", "+", "++", "--":
			p.next()
			operand := p.parseUnary()

			if operand == nil {
				return nil
			}

			return &UnaryExpr{Op: tok.Text, Prefix: true, X: operand, Span: tok.Span.Join(operand.Pos())}
		}
	}

	if tok.IsWord("delete") {
		p.next()
		operand := p.parseUnary()

		if operand == nil {
			return nil
		}

		return &UnaryExpr{Op: "delete", Prefix: true, X: operand, Span: tok.Span.Join(operand.Pos())}
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() Expr {
	expr := p.parsePrimary()

	var pendingOpts []CallOption

	for !p.failed() && expr != nil {
		tok := p.cur()

		switch {
		case tok.IsPunct("."):
			p.next()
			member := p.expectIdent()

			if p.failed() {
				return nil
			}

			expr = &MemberExpr{X: expr, Member: member.Text, MemberSpan: member.Span, Span: expr.Pos().Join(member.Span)}
		case tok.IsPunct("{") && p.looksLikeCallOptions():
			p.next()
			pendingOpts = nil

			for !p.failed() && !p.cur().IsPunct("}") {
				name := p.expectIdent()
				p.expect(":")
				value := p.parseExpr()
				pendingOpts = append(pendingOpts, CallOption{Name: name.Text, Value: value})

				if !p.accept(",") {
					break
				}
			}

			p.expect("}")

			if !p.cur().IsPunct("(") {
				p.fail("expected call after call options")
				return nil
			}
		case tok.IsPunct("("):
			p.next()
			call := &CallExpr{Callee: expr, Options: pendingOpts}
			pendingOpts = nil

			if p.cur().IsPunct("{") {
				// Named-argument call: f({a: 1, b: 2}).
				p.next()

				for !p.failed() && !p.cur().IsPunct("}") {
					p.expectIdent()
					p.expect(":")
					call.Args = append(call.Args, p.parseExpr())

					if !p.accept(",") {
						break
					}
				}

				p.expect("}")
			} else {
				call.Args = p.parseExprList(")")
			}

			closing := p.expect(")")
			call.Span = expr.Pos().Join(closing.Span)
			expr = call
		case tok.IsPunct("["):
			p.next()
			index := &IndexExpr{X: expr}

			if !p.cur().IsPunct("]") && !p.cur().IsPunct(":") {
				index.Index = p.parseExpr()
			}

			if p.accept(":") && !p.cur().IsPunct("]") {
				index.End = p.parseExpr()
			}

			closing := p.expect("]")
			index.Span = expr.Pos().Join(closing.Span)
			expr = index
		case tok.IsPunct("++") || tok.IsPunct("--"):
			p.next()
			expr = &UnaryExpr{Op: tok.Text, Prefix: false, X: expr, Span: expr.Pos().Join(tok.Span)}
		default:
			if len(pendingOpts) > 0 {
				p.fail("dangling call options")
				return nil
			}

			return expr
		}
	}

	return expr
}

// looksLikeCallOptions distinguishes `f{value: 1}(...)` from a block that
// follows the expression itself, such as the body of `try f() {} catch {}`.
func (p *parser) looksLikeCallOptions() bool {
	if p.peek(1).IsPunct("}") {
		// `{}` is only an (empty) option list when a call follows.
		return p.peek(2).IsPunct("(")
	}

	return p.peek(1).Kind == TokenIdent && p.peek(2).IsPunct(":")
}

func (p *parser) parsePrimary() Expr {
	tok := p.cur()

	switch tok.Kind {
	case TokenNumber:
		p.next()

		if strings.HasPrefix(tok.Text, "0x") || strings.HasPrefix(tok.Text, "0X") {
			return &HexNumberLit{Value: tok.Text, Span: tok.Span}
		}

		lit := &NumberLit{Value: tok.Text, Span: tok.Span}

		if p.cur().Kind == TokenIdent && denominations[p.cur().Text] {
			unit := p.next()
			lit.Unit = unit.Text
			lit.Span = lit.Span.Join(unit.Span)
		}

		return lit
	case TokenString:
		p.next()
		lit := &StringLit{Value: tok.Text, Span: tok.Span}

		// Adjacent string literals concatenate.
		for p.cur().Kind == TokenString {
			part := p.next()
			lit.Value += part.Text
			lit.Span = lit.Span.Join(part.Span)
		}

		return lit
	case TokenIdent:
		switch tok.Text {
		case "true", "false":
			p.next()
			return &BoolLit{Value: tok.Text == "true", Span: tok.Span}
		case "new":
			p.next()
			newType := p.parseTypeRef()

			return &NewExpr{Type: newType, Span: tok.Span.Join(newType.Span)}
		}

		p.next()

		return &IdentExpr{Name: tok.Text, Span: tok.Span}
	case TokenPunct:
		switch tok.Text {
		case "(":
			return p.parseTupleOrParen()
		case "[":
			p.next()
			arr := &ArrayExpr{}
			arr.Elems = p.parseExprList("]")
			closing := p.expect("]")
			arr.Span = tok.Span.Join(closing.Span)

			return arr
		}
	}

	p.fail("expected expression, found %s", tok)

	return nil
}

func (p *parser) parseTupleOrParen() Expr {
	open := p.next() // '('
	tuple := &TupleExpr{}
	sawComma := false

	for !p.failed() && !p.cur().IsPunct(")") {
		if p.cur().IsPunct(",") {
			p.next()
			tuple.Elems = append(tuple.Elems, nil)
			sawComma = true

			continue
		}

		tuple.Elems = append(tuple.Elems, p.parseExpr())

		if p.accept(",") {
			sawComma = true

			if p.cur().IsPunct(")") {
				tuple.Elems = append(tuple.Elems, nil)
			}
		}
	}

	closing := p.expect(")")

	if !sawComma && len(tuple.Elems) == 1 && tuple.Elems[0] != nil {
		return tuple.Elems[0]
	}

	tuple.Span = open.Span.Join(closing.Span)

	return tuple
}

// parseExprList parses comma-separated expressions until the closing
// punctuation, which the caller consumes.
func (p *parser) parseExprList(closing string) []Expr {
	var out []Expr

	for !p.failed() && !p.cur().IsPunct(closing) {
		expr := p.parseExpr()

		if expr == nil {
			return out
		}

		out = append(out, expr)

		if !p.accept(",") {
			break
		}
	}

	return out
}

var denominations = map[string]bool{
	"wei": true, "gwei": true, "ether": true,
	"seconds": true, "minutes": true, "hours": true,
	"days": true, "weeks": true, "years": true,
}
