package expression

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// lexer splits formula text into tokens.
//
// In strict mode an identifier that is neither a keyword nor a registered
// field is a lex error. Lenient mode emits it as a field token so that the
// validator can report it together with every other semantic violation.
type lexer struct {
	input    []rune
	registry *Registry
	strict   bool
	pos      int
}

// tokenize scans the whole input. The returned slice always ends with TokenEOF.
func (l *lexer) tokenize() ([]Token, error) {
	var tokens []Token

	for l.pos < len(l.input) {
		char := l.input[l.pos]

		switch {
		case unicode.IsSpace(char):
			l.pos++
			continue

		case isDigit(char) || (char == '-' && isDigit(l.peek())):
			token, err := l.readNumber()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)

		case char == '"' || char == '\'':
			token, err := l.readString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)

		case unicode.IsLetter(char) || char == '_':
			token, err := l.readIdentifier()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)

		case isOperator(char):
			token, err := l.readOperator()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)

		case char == '(':
			tokens = append(tokens, Token{Type: TokenLParen, Value: "(", Pos: l.pos})
			l.pos++

		case char == ')':
			tokens = append(tokens, Token{Type: TokenRParen, Value: ")", Pos: l.pos})
			l.pos++

		default:
			return nil, &LexError{
				Message:  fmt.Sprintf("unexpected character: %c", char),
				Lexeme:   string(char),
				Position: l.pos,
			}
		}
	}

	tokens = append(tokens, Token{Type: TokenEOF, Pos: len(l.input)})
	return tokens, nil
}

// peek returns the rune after the current one, or 0 at the end of input
func (l *lexer) peek() rune {
	if l.pos+1 < len(l.input) {
		return l.input[l.pos+1]
	}
	return 0
}

// readNumber reads an optionally negative run of digits and dots
func (l *lexer) readNumber() (Token, error) {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.pos++
	}

	text := string(l.input[start:l.pos])
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, &LexError{
			Message:  fmt.Sprintf("invalid number: %s", text),
			Lexeme:   text,
			Position: start,
		}
	}

	return Token{Type: TokenNumber, Value: text, Number: value, Pos: start}, nil
}

// readString reads a quoted literal. Escapes are not supported.
func (l *lexer) readString() (Token, error) {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++

	for l.pos < len(l.input) {
		if l.input[l.pos] == quote {
			value := string(l.input[start+1 : l.pos])
			l.pos++
			return Token{Type: TokenString, Value: value, Pos: start}, nil
		}
		l.pos++
	}

	return Token{}, &LexError{
		Message:  "unterminated string",
		Lexeme:   string(l.input[start:]),
		Position: start,
	}
}

// readIdentifier reads a keyword or a field name
func (l *lexer) readIdentifier() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	text := string(l.input[start:l.pos])

	switch upper := strings.ToUpper(text); upper {
	case string(OpAnd), string(OpOr):
		return Token{Type: TokenLogical, Value: upper, Pos: start}, nil
	case "NOT":
		return Token{Type: TokenNot, Value: upper, Pos: start}, nil
	}

	name := strings.ToLower(text)
	if l.strict && !l.registry.Has(name) {
		return Token{}, &LexError{
			Message:  fmt.Sprintf("unknown field: %s", text),
			Lexeme:   text,
			Position: start,
		}
	}
	return Token{Type: TokenField, Value: name, Pos: start}, nil
}

// readOperator reads a one or two character comparison operator
func (l *lexer) readOperator() (Token, error) {
	start := l.pos
	l.pos++
	if l.pos < len(l.input) && l.input[l.pos] == '=' {
		l.pos++
	}

	text := string(l.input[start:l.pos])
	if !CompareOp(text).IsValid() {
		return Token{}, &LexError{
			Message:  fmt.Sprintf("unknown operator: %s", text),
			Lexeme:   text,
			Position: start,
		}
	}
	return Token{Type: TokenOperator, Value: text, Pos: start}, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isOperator(r rune) bool {
	switch r {
	case '>', '<', '=', '!':
		return true
	}
	return false
}
