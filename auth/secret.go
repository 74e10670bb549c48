package auth

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters based on OWASP/CNIL recommendations
const (
	Memory      = 64 * 1024 // 64 MB
	Iterations  = 3
	Parallelism = 2
	SaltLength  = 16
	KeyLength   = 32
)

// GenSalt returns a fresh random salt. Channel rows store the salt next to
// the hash, so a password change always goes through a new salt.
func GenSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashSecret derives an Argon2id hash of secret under the given salt.
func HashSecret(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, Iterations, Memory, Parallelism, KeyLength)
}

// CompareSecret re-derives the hash and compares in constant time to
// prevent timing attacks. A mismatch is a normal outcome, not an error.
func CompareSecret(secret string, salt, hash []byte) bool {
	if len(salt) == 0 || len(hash) == 0 {
		return false
	}
	comparison := argon2.IDKey([]byte(secret), salt, Iterations, Memory, Parallelism, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, comparison) == 1
}
