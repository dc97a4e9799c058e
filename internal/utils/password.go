package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest secret bcrypt can hash; anything past it
// would be silently ignored by the algorithm, so it is rejected instead.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for secrets over
// MaxPasswordBytes (counted in bytes, not characters).
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword returns the bcrypt hash of plain at the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash and a plain password in constant time.
// An oversized password never matches.
func VerifyPassword(hash, plain string) bool {
	if len(plain) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
