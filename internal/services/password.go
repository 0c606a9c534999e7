package services

import (
	"crypto/subtle"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var compareHash = bcrypt.CompareHashAndPassword

// dummyHash is compared against when the username is unknown so that a
// missing user costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return hashed
})

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// isHashed reports whether stored looks like a bcrypt hash rather than a
// plaintext password written by an older client.
func isHashed(stored string) bool {
	if len(stored) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, prefix) {
			return true
		}
	}
	return false
}

// checkPassword compares password with the stored value. legacy is true when
// the stored value was plaintext and should be rehashed.
func checkPassword(stored, password string) (ok, legacy bool) {
	if isHashed(stored) {
		return compareHash([]byte(stored), []byte(password)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1, true
}

// rejectUnknown burns a bcrypt comparison for a username that does not exist.
func rejectUnknown(password string) {
	_ = compareHash(dummyHash(), []byte(password))
}
