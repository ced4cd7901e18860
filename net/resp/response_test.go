package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/screener/ecode"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]any{"id": "1"})

	if w.Code != http.StatusOK {
		t.Errorf("Unexpected status: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Unexpected content type: %q", ct)
	}
	if body := decode(t, w); body["id"] != "1" {
		t.Errorf("Unexpected body: %v", body)
	}

	w = httptest.NewRecorder()
	WithStatusCode(w, http.StatusCreated, "created")
	if w.Code != http.StatusCreated || decode(t, w)["message"] != "created" {
		t.Errorf("Unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestFail(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, FormulaSyntax("unexpected end of expression", 7))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Unexpected status: %d", w.Code)
	}
	body := decode(t, w)
	if body["code"] != float64(ecode.FormulaSyntaxErr) {
		t.Errorf("Unexpected code: %v", body["code"])
	}
	if errs, _ := body["errors"].(map[string]any); errs["position"] != float64(7) {
		t.Errorf("Unexpected errors: %v", body["errors"])
	}

	w = httptest.NewRecorder()
	Fail(w, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Unexpected status for nil exception: %d", w.Code)
	}

	w = httptest.NewRecorder()
	Fail(w, Code(ecode.FormulaNotFound))
	if w.Code != http.StatusNotFound || decode(t, w)["message"] != "Formula not found" {
		t.Errorf("Unexpected response: %d %s", w.Code, w.Body.String())
	}
}
