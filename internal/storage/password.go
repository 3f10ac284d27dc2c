package storage

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password for storage. Both backends hash
// on create and on password update so plaintext never reaches disk.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored hash against a plaintext candidate.
func CheckPassword(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
