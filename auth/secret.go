package auth

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var schoolIDRe = regexp.MustCompile(`^\d{8}$`)

// ValidSchoolID reports whether s is an 8-digit school ID.
func ValidSchoolID(s string) bool { return schoolIDRe.MatchString(s) }

// HashSecret hashes the password-equivalent the client derives from the
// school ID.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
