package expression

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("price >= 120.5 AND name != 'ABC'")
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}

	want := []struct {
		typ   TokenType
		value string
		pos   int
	}{
		{TokenField, "price", 0},
		{TokenOperator, ">=", 6},
		{TokenNumber, "120.5", 9},
		{TokenLogical, "AND", 15},
		{TokenField, "name", 19},
		{TokenOperator, "!=", 24},
		{TokenString, "ABC", 27},
		{TokenEOF, "", 32},
	}

	if len(tokens) != len(want) {
		t.Fatalf("Unexpected token count: got %d, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Type != w.typ || tok.Value != w.value || tok.Pos != w.pos {
			t.Errorf("Token %d: got %s %q @%d, want %s %q @%d", i, tok.Type, tok.Value, tok.Pos, w.typ, w.value, w.pos)
		}
	}
	if tokens[2].Number != 120.5 {
		t.Errorf("Unexpected number: got %v, want 120.5", tokens[2].Number)
	}
}

func TestTokenizeCaseFolding(t *testing.T) {
	tokens, err := Tokenize("PRICE < 1 and not Premium_Rate > 2 Or ytm == 3")
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}

	types := []TokenType{
		TokenField, TokenOperator, TokenNumber, TokenLogical, TokenNot,
		TokenField, TokenOperator, TokenNumber, TokenLogical,
		TokenField, TokenOperator, TokenNumber, TokenEOF,
	}
	for i, typ := range types {
		if tokens[i].Type != typ {
			t.Fatalf("Token %d: got %s, want %s", i, tokens[i].Type, typ)
		}
	}
	if tokens[0].Value != "price" || tokens[5].Value != "premium_rate" {
		t.Errorf("Fields not lowercased: %q, %q", tokens[0].Value, tokens[5].Value)
	}
	if tokens[3].Value != "AND" || tokens[8].Value != "OR" {
		t.Errorf("Keywords not uppercased: %q, %q", tokens[3].Value, tokens[8].Value)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"price > 130", 130},
		{"price > -5", -5},
		{"price > -0.25", -0.25},
		{"price > 007", 7},
		{"price>1.", 1},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Errorf("Tokenize(%q) failed: %v", tt.input, err)
			continue
		}
		if tokens[2].Type != TokenNumber || tokens[2].Number != tt.want {
			t.Errorf("Tokenize(%q): got %s %v, want NUMBER %v", tt.input, tokens[2].Type, tokens[2].Number, tt.want)
		}
	}
}

func TestTokenizeStrings(t *testing.T) {
	tokens, err := Tokenize(`name == "it's" OR code == '1 2'`)
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}
	if tokens[2].Value != "it's" {
		t.Errorf("Unexpected string: got %q", tokens[2].Value)
	}
	if tokens[6].Value != "1 2" {
		t.Errorf("Unexpected string: got %q", tokens[6].Value)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		pos     int
	}{
		{"price > 1.2.3", "invalid number: 1.2.3", 8},
		{"name == 'abc", "unterminated string", 8},
		{"foo < 1", "unknown field: foo", 0},
		{"price = 1", "unknown operator: =", 6},
		{"price ! 1", "unknown operator: !", 6},
		{"price > 1 & ytm < 2", "unexpected character: &", 10},
		{"价格 > 1", "unknown field: 价格", 0},
		{"price > 1 #", "unexpected character: #", 10},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("Tokenize(%q): expected LexError, got %v", tt.input, err)
			continue
		}
		if lexErr.Message != tt.message {
			t.Errorf("Tokenize(%q): got message %q, want %q", tt.input, lexErr.Message, tt.message)
		}
		if lexErr.Position != tt.pos {
			t.Errorf("Tokenize(%q): got position %d, want %d", tt.input, lexErr.Position, tt.pos)
		}
	}
}

func TestTokenizeRunePositions(t *testing.T) {
	tokens, err := Tokenize("name == '转债' AND price < 1")
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}
	if tokens[3].Pos != 13 {
		t.Errorf("Unexpected AND position: got %d, want 13", tokens[3].Pos)
	}
}
