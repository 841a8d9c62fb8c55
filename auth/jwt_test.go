package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	email := "12345678@example.edu"

	tok, err := GenerateVerifyToken(email, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	gotEmail, jti, err := ParseVerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseVerifyToken error: %v", err)
	}
	if gotEmail != email {
		t.Fatalf("email mismatch: got %q want %q", gotEmail, email)
	}
	if jti == "" {
		t.Fatalf("expected a non-empty token ID")
	}
}

func TestParseVerifyToken_FreshJTIPerToken(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	a, _ := GenerateVerifyToken("a@example.edu", secret, time.Hour)
	b, _ := GenerateVerifyToken("a@example.edu", secret, time.Hour)

	_, ja, err := ParseVerifyToken(a, secret)
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	_, jb, err := ParseVerifyToken(b, secret)
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if ja == jb {
		t.Fatalf("two tokens share a jti; links would not be single-use")
	}
}

func TestParseVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateVerifyToken("x@example.edu", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	_, _, err = ParseVerifyToken(tok, secret)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateVerifyToken("x@example.edu", []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	_, _, err = ParseVerifyToken(tok, []byte("wrong"))
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	_, _, err := ParseVerifyToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
