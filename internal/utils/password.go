package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"     // secure random salt generation
	"crypto/sha256"   // digest for PBKDF2
	"crypto/subtle"   // constant-time comparison
	"encoding/hex"    // hex encoding for stored hashes and salts

	"golang.org/x/crypto/pbkdf2" // key derivation for password storage
)

// Password hashing parameters. Hash and salt are stored as separate hex
// columns so the salt can be reused to verify a login attempt.
const (
	pbkdf2Iterations = 120_000
	saltBytes        = 32
	keyBytes         = 32
)

// HashPassword derives a PBKDF2-SHA256 hash from the plain password under
// a fresh random salt. Both return values are hex strings.
func HashPassword(plain string) (hash, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	key := pbkdf2.Key([]byte(plain), raw, pbkdf2Iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key), hex.EncodeToString(raw), nil
}

// VerifyPassword re-derives the hash from the stored salt and compares it
// against the stored hash in constant time.
func VerifyPassword(hash, salt, plain string) bool {
	raw, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(plain), raw, pbkdf2Iterations, keyBytes, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
