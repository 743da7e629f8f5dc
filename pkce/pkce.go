// Package pkce generates the CSRF state and proof-key material for the
// authorization-code flow.
package pkce

import (
	"crypto"
	"crypto/rand"
	_ "crypto/sha256"
	"math/big"

	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"golang.org/x/oauth2"
)

// MethodS256 is the only code challenge method the front-end uses.
const MethodS256 = "S256"

// stateFragmentMax bounds each base-36 state fragment (36^11).
var stateFragmentMax = new(big.Int).Exp(big.NewInt(36), big.NewInt(11), nil)

// Challenge is the material for a single authorization attempt.
type Challenge struct {
	State         string
	CodeVerifier  string
	CodeChallenge string
	Method        string
}

// Generate returns a fresh state, verifier and S256 challenge.
func Generate() (Challenge, error) {
	if !crypto.SHA256.Available() {
		return Challenge{}, errors.Wrapf(errors.ErrPlatformUnsupported, "sha256 not available")
	}

	state, err := newState()
	if err != nil {
		return Challenge{}, err
	}

	verifier := oauth2.GenerateVerifier()
	return Challenge{
		State:         state,
		CodeVerifier:  verifier,
		CodeChallenge: ChallengeFromVerifier(verifier),
		Method:        MethodS256,
	}, nil
}

// ChallengeFromVerifier returns base64url(SHA256(verifier)) without padding.
func ChallengeFromVerifier(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// newState joins two base-36 fragments drawn from crypto/rand.
func newState() (string, error) {
	var state string
	for i := 0; i < 2; i++ {
		n, err := rand.Int(rand.Reader, stateFragmentMax)
		if err != nil {
			return "", errors.Wrapf(err, "generating state")
		}
		state += n.Text(36)
	}
	return state, nil
}
