package utils

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	if !CheckPassword("password123", hash) {
		t.Fatalf("CheckPassword should accept the original password")
	}
	if CheckPassword("password124", hash) {
		t.Fatalf("CheckPassword should reject a wrong password")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if CheckPassword("whatever", "not-a-bcrypt-hash") {
		t.Fatalf("CheckPassword should fail closed on malformed hash")
	}
	if CheckPassword("whatever", "") {
		t.Fatalf("CheckPassword should fail closed on empty hash")
	}
}
