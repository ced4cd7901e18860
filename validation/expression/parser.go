package expression

import "fmt"

// parser is a recursive descent parser over a token slice.
//
// Grammar, lowest to highest precedence:
//
//	expression := or_expr
//	or_expr    := and_expr (OR and_expr)*
//	and_expr   := not_expr (AND not_expr)*
//	not_expr   := NOT not_expr | primary
//	primary    := comparison | '(' expression ')'
//	comparison := FIELD OPERATOR value
//	value      := NUMBER | STRING
type parser struct {
	tokens  []Token
	current int
}

// parse parses the full token stream into a single AST
func (p *parser) parse() (Node, error) {
	if len(p.tokens) == 0 {
		return nil, &ParseError{Message: "empty expression", Position: 0}
	}
	if p.peek().Type == TokenEOF {
		return nil, p.errorf("empty expression")
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf("unexpected trailing input: %s", tok.describe())
	}
	return node, nil
}

// peek returns the current token. A stream without an END token is treated
// as if it had one after the last token.
func (p *parser) peek() Token {
	if p.current < len(p.tokens) {
		return p.tokens[p.current]
	}
	pos := 0
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		pos = last.Pos + len([]rune(last.Value))
	}
	return Token{Type: TokenEOF, Pos: pos}
}

func (p *parser) advance() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: p.peek().Pos,
	}
}

func (p *parser) isLogical(op LogicalOp) bool {
	tok := p.peek()
	return tok.Type == TokenLogical && tok.Value == string(op)
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.isLogical(OpOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Operator: OpOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.isLogical(OpAnd) {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Logical{Operator: OpAnd, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.peek().Type == TokenNot {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	switch tok := p.peek(); tok.Type {
	case TokenLParen:
		p.advance()
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if next := p.peek(); next.Type != TokenRParen {
			return nil, p.errorf("expected ')', got %s", next.describe())
		}
		p.advance()
		return node, nil

	case TokenField:
		return p.parseComparison()

	case TokenEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("unexpected token: %s", tok.describe())
	}
}

func (p *parser) parseComparison() (Node, error) {
	field := p.advance()

	op := p.peek()
	if op.Type != TokenOperator {
		return nil, p.errorf("expected comparison operator after field '%s', got %s", field.Value, op.describe())
	}
	p.advance()

	switch tok := p.peek(); tok.Type {
	case TokenNumber:
		p.advance()
		return &Comparison{Field: field.Value, Operator: CompareOp(op.Value), Value: NumberValue(tok.Number)}, nil
	case TokenString:
		p.advance()
		return &Comparison{Field: field.Value, Operator: CompareOp(op.Value), Value: StringValue(tok.Value)}, nil
	default:
		return nil, p.errorf("expected number or string, got %s", tok.describe())
	}
}
