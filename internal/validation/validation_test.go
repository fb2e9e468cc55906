package validation

import (
	"testing"
	"time"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name string
		cpf  string
		want bool
	}{
		{"known good checksum", "52998224725", true},
		{"known good formatted", "529.982.247-25", true},
		{"all equal digits", "11111111111", false},
		{"all zeros", "00000000000", false},
		{"bad first check digit", "52998224735", false},
		{"bad second check digit", "52998224724", false},
		{"too short", "5299822472", false},
		{"too long", "529982247251", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCPF(tt.cpf); got != tt.want {
				t.Errorf("ValidateCPF(%q) = %v, want %v", tt.cpf, got, tt.want)
			}
		})
	}
}

func TestStripCPF(t *testing.T) {
	if got := StripCPF("529.982.247-25"); got != "52998224725" {
		t.Errorf("StripCPF() = %q, want %q", got, "52998224725")
	}
}

func TestValidateBirthDate(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"valid adult", "15/03/1990", true},
		{"exactly 18 by year", "31/08/2008", true},
		{"age 17", "01/01/2009", false},
		{"not a leap year", "29/02/2001", false},
		{"real leap day", "29/02/2000", true},
		{"future date", "01/01/2030", false},
		{"older than 120", "01/01/1900", false},
		{"wrong format", "1990-03-15", false},
		{"day overflow", "32/01/1990", false},
		{"month overflow", "15/13/1990", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateBirthDate(tt.date, now); got != tt.want {
				t.Errorf("ValidateBirthDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestBirthDateToISO(t *testing.T) {
	if got := BirthDateToISO("15/03/1990"); got != "1990-03-15" {
		t.Errorf("BirthDateToISO() = %q, want %q", got, "1990-03-15")
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"USER@EXAMPLE.COM", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"user@nodot", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"<script>alert(1)</script>", "scriptalert(1)/script"},
		{"javascript:alert(1)", "alert(1)"},
		{"a onclick=x b", "a x b"},
	}

	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
