package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-social/commune/internal/shared"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenManager("testsecret", time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), accountID)
}

func TestVerifyTamperedToken(t *testing.T) {
	tokens := NewTokenManager("testsecret", time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	tampered := token[:len(token)-1] + flipChar(token[len(token)-1])
	_, err = tokens.Verify(tampered)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := NewTokenManager("testsecret", -time.Minute)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("testsecret", time.Hour)
	verifier := NewTokenManager("othersecret", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	tokens := NewTokenManager("testsecret", time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.Verify(input)
		assert.ErrorIs(t, err, shared.ErrInvalidToken, "input %q", input)
	}
}

// flipChar swaps the byte for one that differs in its high base64 bits, so a
// one-character change always alters the decoded signature.
func flipChar(c byte) string {
	if c == 'Q' {
		return "A"
	}
	return "Q"
}
