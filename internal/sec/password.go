package sec

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password, in bytes, that can be hashed.
const MaxPasswordLength = 72

var (
	// ErrPasswordTooLong is returned when hashing a password longer than
	// [MaxPasswordLength].
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrPasswordMismatch is returned when a password does not match a hash.
	ErrPasswordMismatch = errors.New("password does not match")
)

// HashPassword returns the bcrypt digest of password.
func HashPassword[T ~string | ~[]byte](password T) ([]byte, error) {
	if len(password) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// ComparePassword returns [ErrPasswordMismatch] if password does not resolve
// to hash, or another error if hash is malformed.
func ComparePassword[T ~string | ~[]byte](password T, hash []byte) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// dummyHash is compared against when a login names an unknown user, so that
// the response takes as long as a wrong password would.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := HashPassword("not a real password")
	if err != nil {
		panic(err)
	}
	return hash
})
