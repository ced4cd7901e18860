package expression

// TokenType represents formula token type
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenField
	TokenNumber
	TokenString
	TokenOperator
	TokenLogical
	TokenNot
	TokenLParen
	TokenRParen
)

var tokenNames = [...]string{
	TokenEOF:      "END",
	TokenField:    "FIELD",
	TokenNumber:   "NUMBER",
	TokenString:   "STRING",
	TokenOperator: "OPERATOR",
	TokenLogical:  "LOGICAL",
	TokenNot:      "NOT",
	TokenLParen:   "LPAREN",
	TokenRParen:   "RPAREN",
}

// String returns the token type name
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// Token represents a lexical token.
//
// Pos is the zero-based rune offset of the first character of the token.
// Number is only meaningful for TokenNumber.
type Token struct {
	Type   TokenType
	Value  string
	Number float64
	Pos    int
}

// describe renders a token for error messages
func (t Token) describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of expression"
	case TokenString:
		return "'" + t.Value + "'"
	default:
		return t.Value
	}
}
