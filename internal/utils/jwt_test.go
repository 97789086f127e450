package utils

import (
	"testing"
	"time"
)

func TestLoginToken_RoundTrip(t *testing.T) {
	token, err := GenerateLoginToken("u-123", "田中花子", true, time.Hour)
	if err != nil {
		t.Fatalf("GenerateLoginToken error: %v", err)
	}
	claims, err := ParseLoginToken(token)
	if err != nil {
		t.Fatalf("ParseLoginToken error: %v", err)
	}
	if claims.UserID != "u-123" || claims.Name != "田中花子" || claims.Admin != true || claims.Type != "login" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseLoginToken_Expired(t *testing.T) {
	token, err := GenerateLoginToken("u-1", "alice", false, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateLoginToken error: %v", err)
	}
	_, err = ParseLoginToken(token)
	if err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestParseLoginToken_Garbage(t *testing.T) {
	if _, err := ParseLoginToken("not.a.token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
