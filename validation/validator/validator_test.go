package validator

import (
	"testing"
)

type request struct {
	Name      string `json:"name" binding:"required,max=5"`
	SortOrder string `json:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `json:"page" binding:"omitempty,min=1"`
}

func TestValidateStruct(t *testing.T) {
	msgs := ValidateStruct(&request{Name: "toolong", SortOrder: "up"})
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %v", len(msgs), msgs)
	}
	if got := msgs["name"]; got != "The field 'name' must be at most 5." {
		t.Errorf("name message = %q", got)
	}
	if got := msgs["sort_order"]; got != "The field 'sort_order' must be one of [asc desc]." {
		t.Errorf("sort_order message = %q", got)
	}

	if msgs := ValidateStruct(&request{Name: "ok"}); len(msgs) != 0 {
		t.Errorf("expected no messages, got %v", msgs)
	}
}

func TestValidateStructLanguage(t *testing.T) {
	msgs := ValidateStruct(&request{}, "zh")
	if got := msgs["name"]; got != "字段 'name' 为必填项。" {
		t.Errorf("name message = %q", got)
	}
}

func TestTranslateIgnoresOtherErrors(t *testing.T) {
	if Translate(nil) != nil {
		t.Error("expected nil for nil error")
	}
}
