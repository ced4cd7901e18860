package expression

import (
	"sync"
	"testing"
)

type mapRecord struct {
	numbers map[string]float64
	strings map[string]string
}

func (m mapRecord) NumberField(name string) (float64, bool) {
	v, ok := m.numbers[name]
	return v, ok
}

func (m mapRecord) StringField(name string) (string, bool) {
	v, ok := m.strings[name]
	return v, ok
}

var sampleBond = mapRecord{
	numbers: map[string]float64{"price": 118.5, "premium_rate": 12.3, "ytm": -1.2, "double_low": 130.8},
	strings: map[string]string{"code": "113050", "credit_rating": "AA+"},
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"price < 130", true},
		{"price >= 118.5", true},
		{"price > 118.5", false},
		{"price == 118.5 AND ytm != 0", true},
		{"premium_rate < 10 OR double_low <= 131", true},
		{"NOT (price < 130)", false},
		{"credit_rating == 'AA+'", true},
		{"credit_rating != 'AA+' OR code == '113050'", true},
	}

	for _, tt := range tests {
		node, err := ParseFormula(tt.input)
		if err != nil {
			t.Fatalf("ParseFormula(%q) failed: %v", tt.input, err)
		}
		got, err := Evaluate(node, sampleBond)
		if err != nil {
			t.Errorf("Evaluate(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEvaluateShortCircuit(t *testing.T) {
	missing := cmp("bogus", OpEQ, NumberValue(1))

	got, err := Evaluate(&Logical{Operator: OpAnd, Left: cmp("price", OpLT, NumberValue(100)), Right: missing}, sampleBond)
	if err != nil || got {
		t.Errorf("AND: got %v, %v; want false, nil", got, err)
	}

	got, err = Evaluate(&Logical{Operator: OpOr, Left: cmp("price", OpLT, NumberValue(200)), Right: missing}, sampleBond)
	if err != nil || !got {
		t.Errorf("OR: got %v, %v; want true, nil", got, err)
	}
}

func TestEvaluateMissingField(t *testing.T) {
	node, err := ParseFormula("stock_price > 10")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if _, err := Evaluate(node, sampleBond); err == nil {
		t.Error("Expected error for missing field")
	}

	if _, err := Evaluate(cmp("code", OpGT, StringValue("1")), sampleBond); err == nil {
		t.Error("Expected error for ordering operator on string field")
	}
	if _, err := Evaluate(nil, sampleBond); err == nil {
		t.Error("Expected error for nil node")
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	engine := Default()
	var wg sync.WaitGroup
	errs := make(chan error, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := engine.Normalize("price < 130 AND NOT (ytm > 1 OR code == 'x')"); err != nil {
					errs <- err
					return
				}
				if v := engine.ValidateFormula("name > 'x'"); v.Valid {
					errs <- nil
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected concurrent result: %v", err)
	}
}
