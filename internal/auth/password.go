package auth

import "golang.org/x/crypto/bcrypt"

// Hasher applies salted one-way password hashing with a fixed cost factor.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher. Costs outside the bcrypt range fall back to
// the bcrypt default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash returns the bcrypt hash of password. The salt is generated per call, so
// equal inputs never produce equal hashes.
func (h Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. Malformed stored
// hashes verify as false rather than erroring.
func (h Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
