package storage

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// SecretLength is the number of characters in a generated metrics secret.
const SecretLength = 32

// secretAlphabet omits characters that are easy to confuse (0/O, 1/l/I).
const secretAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// bcryptCost is the work factor for admin token hashes.
const bcryptCost = 12

// GenerateSecret returns a random secret of SecretLength characters from secretAlphabet.
func GenerateSecret() (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	buf := make([]byte, SecretLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = secretAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// HashKey creates a bcrypt hash of a key for storage.
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyKey checks if a key matches a bcrypt hash.
func VerifyKey(key, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
