package httputil

import (
	"encoding/json"
	"testing"
)

// The three PATCH states must stay distinguishable: absent keeps the old
// value, null clears it, a string sets it.
func TestOptionalString_TriState(t *testing.T) {
	type body struct {
		Parent OptionalString `json:"parent"`
	}

	tests := []struct {
		name        string
		payload     string
		wantPresent bool
		wantValue   *string
	}{
		{"absent", `{}`, false, nil},
		{"null", `{"parent": null}`, true, nil},
		{"value", `{"parent": "f-123"}`, true, strPtr("f-123")},
		{"empty string", `{"parent": ""}`, true, strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			if err := json.Unmarshal([]byte(tt.payload), &b); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if b.Parent.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", b.Parent.Present, tt.wantPresent)
			}
			switch {
			case tt.wantValue == nil && b.Parent.Value != nil:
				t.Errorf("Value = %q, want nil", *b.Parent.Value)
			case tt.wantValue != nil && b.Parent.Value == nil:
				t.Errorf("Value = nil, want %q", *tt.wantValue)
			case tt.wantValue != nil && *b.Parent.Value != *tt.wantValue:
				t.Errorf("Value = %q, want %q", *b.Parent.Value, *tt.wantValue)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
