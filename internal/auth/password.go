// Package auth holds the password hashing and token signing primitives the
// services and middleware rely on.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// passlibPrefix marks hashes written by passlib's bcrypt_sha256 scheme.
const passlibPrefix = "$bcrypt-sha256$"

// PasswordHasher hashes and verifies passwords with bcrypt. Passwords are
// pre-hashed with SHA-256 so inputs longer than bcrypt's 72-byte limit are
// neither rejected nor silently truncated.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. A cost of
// zero selects bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the encoded hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Hashes in passlib's
// bcrypt_sha256 format are accepted as well. Malformed hashes never match.
func (h *PasswordHasher) Verify(hash, password string) bool {
	if strings.HasPrefix(hash, passlibPrefix) {
		return verifyPasslib(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

// verifyPasslib checks "$bcrypt-sha256$2b,12$<salt>$<digest>" (v1, plain
// SHA-256 prehash) and "$bcrypt-sha256$v=2,t=2b,r=12$<salt>$<digest>" (v2,
// HMAC-SHA256 keyed by the salt) by rebuilding the inner bcrypt hash.
func verifyPasslib(hash, password string) bool {
	parts := strings.Split(strings.TrimPrefix(hash, passlibPrefix), "$")
	if len(parts) != 3 {
		return false
	}
	params, salt, digest := parts[0], parts[1], parts[2]
	if len(salt) != 22 || len(digest) != 31 {
		return false
	}

	var ident, rounds string
	var key []byte
	if strings.HasPrefix(params, "v=2,") {
		for _, kv := range strings.Split(params, ",") {
			k, v, _ := strings.Cut(kv, "=")
			switch k {
			case "t":
				ident = v
			case "r":
				rounds = v
			}
		}
		mac := hmac.New(sha256.New, []byte(salt))
		mac.Write([]byte(password))
		key = []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	} else {
		var ok bool
		if ident, rounds, ok = strings.Cut(params, ","); !ok {
			return false
		}
		key = prehash(password)
	}

	cost, err := strconv.Atoi(rounds)
	if err != nil || ident == "" || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return false
	}
	inner := fmt.Sprintf("$%s$%02d$%s%s", ident, cost, salt, digest)
	return bcrypt.CompareHashAndPassword([]byte(inner), key) == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
