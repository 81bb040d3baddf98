package validator

import "testing"

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Str0ng!pass", true},
		{"valid minimal length", "Aa1!bcde", true},
		{"too short", "Aa1!bcd", false},
		{"no uppercase", "str0ng!pass", false},
		{"no digit", "Strong!pass", false},
		{"no symbol", "Str0ngpass", false},
		{"empty", "", false},
		{"long but all lowercase", "justlowercaseletters", false},
		{"symbol from full set", "Passw0rd~", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPasswordPolicy(tt.password); got != tt.want {
				t.Errorf("CheckPasswordPolicy(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
