package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		want    string
		wantErr bool
	}{
		{"lowercases domain only", "Test2@Example.COM", "Test2@example.com", false},
		{"already canonical", "user@example.com", "user@example.com", false},
		{"trims whitespace", "  user@Example.com \n", "user@example.com", false},
		{"local part preserved verbatim", "MiXeD.CaSe@EXAMPLE.ORG", "MiXeD.CaSe@example.org", false},
		{"subdomain lowercased", "user@Mail.Example.COM", "user@mail.example.com", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"no at sign", "userexample.com", "", true},
		{"missing local part", "@example.com", "", true},
		{"missing domain", "user@", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmail(tt.email)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
