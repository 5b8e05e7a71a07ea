package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used for password hashing unless
// configured otherwise.
const DefaultBcryptCost = 10

// HashPassword computes a salted bcrypt digest of the plaintext.
func HashPassword(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ComparePassword reports whether the plaintext matches the digest. bcrypt's
// comparison does not leak timing correlated with partial matches; a
// malformed digest yields false rather than an error.
func ComparePassword(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
