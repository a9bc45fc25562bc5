// Package crypto provides password hashing for user accounts.
package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor used for new hashes.
var passwordCost = bcrypt.DefaultCost

// HashPasswordAsBcrypt generates a bcrypt hash of the given password.
func HashPasswordAsBcrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(hash), err
}

// CheckPasswordHash verifies if the given password matches the bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetPasswordCost changes the work factor; tests lower it to bcrypt.MinCost.
func SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	passwordCost = cost
}
