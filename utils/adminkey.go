package utils

import "golang.org/x/crypto/bcrypt"

// CheckAdminKey compares a presented admin key against the configured bcrypt
// hash. An empty hash means admin endpoints are disabled entirely.
func CheckAdminKey(hash, key string) bool {
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// HashAdminKey produces a bcrypt hash for an admin key, used by operators to
// generate the ADMIN_KEY_HASH configuration value.
func HashAdminKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(b), err
}
