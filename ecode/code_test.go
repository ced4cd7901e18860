package ecode

import (
	"net/http"
	"testing"
)

func TestText(t *testing.T) {
	if got := Text(FormulaNotFound); got != "Formula not found" {
		t.Errorf("Unexpected text: %q", got)
	}
	if got := Text(-99999); got != "Unknown error" {
		t.Errorf("Unexpected text for unknown code: %q", got)
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := map[int]int{
		FormulaSyntaxErr:  http.StatusBadRequest,
		FormulaInvalid:    http.StatusBadRequest,
		FormulaNotFound:   http.StatusNotFound,
		DataFetchErr:      http.StatusBadGateway,
		ExportUnsupported: http.StatusBadRequest,
		ServerErr:         http.StatusInternalServerError,
		-99999:            http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := ToHTTPStatus(code); got != want {
			t.Errorf("ToHTTPStatus(%d): got %d, want %d", code, got, want)
		}
	}
}

func TestRegister(t *testing.T) {
	Register(-2001, "Custom failure", http.StatusTeapot)
	if Text(-2001) != "Custom failure" || ToHTTPStatus(-2001) != http.StatusTeapot {
		t.Error("Registered code not applied")
	}
}

func TestFieldMessages(t *testing.T) {
	if got := FieldIsRequired("name"); got != "name required" {
		t.Errorf("Unexpected message: %q", got)
	}
	if got := NotExist("formula"); got != "formula does not exist" {
		t.Errorf("Unexpected message: %q", got)
	}
}
