package services

import (
	"strings"
	"testing"
)

func TestGenerateTempPassword_Length(t *testing.T) {
	password := GenerateTempPassword()
	if len(password) != tempPasswordLength {
		t.Errorf("expected length %d, got %d", tempPasswordLength, len(password))
	}
}

func TestGenerateTempPassword_Charset(t *testing.T) {
	for i := 0; i < 100; i++ {
		password := GenerateTempPassword()
		for _, r := range password {
			if !strings.ContainsRune(tempPasswordCharset, r) {
				t.Fatalf("unexpected character %q in %q", r, password)
			}
		}
	}
}

func TestGenerateTempPassword_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateTempPassword()] = true
	}
	// 50 draws from a 36^8 space must not collapse to a handful of values
	if len(seen) < 45 {
		t.Errorf("expected distinct passwords, got %d unique of 50", len(seen))
	}
}
