// Package password implements the credential hashing policy: clients
// send a SHA-256 pre-hash of the raw password, the server seals that
// pre-hash with bcrypt before storing it. Raw passwords never reach
// persistence or logs.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production. At cost 12
// sealing takes a few hundred milliseconds; callers should not run it
// on a latency-critical hot path.
const DefaultCost = 12

var (
	// ErrInvalidPreHash is returned when a credential does not have
	// pre-hash shape: exactly 64 hex characters.
	ErrInvalidPreHash = errors.New("password must be a SHA-256 hash (64 hex characters)")

	// ErrUnmigratable is returned by Migrate when a legacy hash has no
	// safe migration path without the raw password.
	ErrUnmigratable = errors.New("cannot migrate hash without raw password")
)

// Policy is a stateless hashing policy safe for concurrent use. Inject
// one instance wherever credential hashing is needed.
type Policy struct {
	cost int
}

// NewPolicy returns a Policy with the given bcrypt cost. Costs outside
// the valid bcrypt range fall back to DefaultCost.
func NewPolicy(cost int) *Policy {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Policy{cost: cost}
}

// Cost returns the configured bcrypt work factor.
func (p *Policy) Cost() int { return p.cost }

// Digest returns the SHA-256 digest of raw as 64 lowercase hex
// characters. Deterministic; this is what frontends are expected to
// compute before sending a credential.
func (p *Policy) Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ValidatePreHash rejects anything that is not exactly 64 hex
// characters. Every operation accepting a pre-hash calls through here
// first.
func (p *Policy) ValidatePreHash(candidate string) error {
	if len(candidate) != 64 {
		return ErrInvalidPreHash
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return ErrInvalidPreHash
		}
	}
	return nil
}

// Seal validates preHash and applies bcrypt with the configured cost.
// A fresh salt is drawn on every call, so two seals of the same
// pre-hash never produce the same stored hash.
func (p *Policy) Seal(preHash string) (string, error) {
	if err := p.ValidatePreHash(preHash); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(preHash), p.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether stored was sealed from a pre-hash equal to
// preHash. It never returns an error: malformed pre-hashes and
// malformed stored hashes both yield false. Seal is strict, Verify is
// lenient, so verification cannot crash or leak format details.
func (p *Policy) Verify(preHash, stored string) bool {
	if p.ValidatePreHash(preHash) != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(preHash)) == nil
}

// IsSealed reports whether hash carries a recognized bcrypt version
// prefix. Purely syntactic; used to tell legacy hashes apart from
// already-migrated ones.
func (p *Policy) IsSealed(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

// Migrate converts a legacy stored hash to the sealed format. The
// ladder, in order: already sealed values pass through unchanged; if
// the raw password is supplied its digest is sealed; a legacy value
// that itself has pre-hash shape is treated as a client digest and
// sealed directly; anything else is unmigratable without the raw
// password.
//
// The pre-hash-shaped fallback is a heuristic: a legacy hash that
// happens to be 64 hex characters but is not actually the SHA-256 of
// the user's password will migrate into a hash the user can never
// match against.
func (p *Policy) Migrate(legacyHash string, rawSecret *string) (string, error) {
	switch {
	case p.IsSealed(legacyHash):
		return legacyHash, nil
	case rawSecret != nil:
		return p.Seal(p.Digest(*rawSecret))
	case p.ValidatePreHash(legacyHash) == nil:
		return p.Seal(legacyHash)
	default:
		return "", ErrUnmigratable
	}
}
