package types

import (
	"encoding/json"
	"testing"
)

func TestOptionalTriState(t *testing.T) {
	var payload struct {
		Name  Optional[string] `json:"name"`
		Notes Optional[string] `json:"notes"`
		CEP   Optional[string] `json:"cep"`
	}

	raw := []byte(`{"name":"Maria","notes":null}`)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !payload.Name.IsSet() || payload.Name.IsNull() {
		t.Fatal("name should be present with a value")
	}
	if v, ok := payload.Name.Value(); !ok || v != "Maria" {
		t.Fatalf("unexpected name value %q ok=%v", v, ok)
	}
	if !payload.Notes.IsSet() || !payload.Notes.IsNull() {
		t.Fatal("notes should be an explicit null")
	}
	if payload.CEP.IsSet() {
		t.Fatal("cep was absent and must not report as set")
	}
	if payload.CEP.Ptr() != nil || payload.Notes.Ptr() != nil {
		t.Fatal("absent and null optionals must yield nil pointers")
	}
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(map[string]any{
		"a": NewOptional(42),
		"b": NullOptional[int](),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":42,"b":null}` {
		t.Fatalf("unexpected output %s", out)
	}
}
