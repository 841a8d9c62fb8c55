package auth

import "testing"

func TestHashAndCheckSecret(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("derived-from-12345678")
	if err != nil {
		t.Fatalf("HashSecret error: %v", err)
	}
	if hash == "derived-from-12345678" {
		t.Fatalf("hash must not equal the secret")
	}
	if !CheckSecret(hash, "derived-from-12345678") {
		t.Fatalf("correct secret rejected")
	}
	if CheckSecret(hash, "wrong") {
		t.Fatalf("wrong secret accepted")
	}
}

func TestValidSchoolID(t *testing.T) {
	t.Parallel()

	valid := []string{"12345678", "00000001"}
	invalid := []string{"", "1234567", "123456789", "1234567a", "12 45678", "abcdefgh"}

	for _, s := range valid {
		if !ValidSchoolID(s) {
			t.Errorf("ValidSchoolID(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidSchoolID(s) {
			t.Errorf("ValidSchoolID(%q) = true, want false", s)
		}
	}
}
