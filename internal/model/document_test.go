package model

import "testing"

func TestDocumentEmail(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"present", Document{FieldEmail: "who@example.com"}, "who@example.com"},
		{"missing", Document{"name": "no email"}, ""},
		{"wrong type", Document{FieldEmail: 42}, ""},
		{"nil document", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.Email(); got != tt.want {
				t.Errorf("Email() = %q, want %q", got, tt.want)
			}
		})
	}
}
