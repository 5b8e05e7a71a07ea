package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portcullis-auth/portcullis/internal/token"
)

const testIssuer = "portcullis-test"

func testCodec(t *testing.T) *token.Codec {
	t.Helper()

	keys, err := token.GenerateKeyPair(2048)
	require.NoError(t, err)

	return token.NewCodec(keys, testIssuer)
}

func TestIssueUserToken_RoundTrip(t *testing.T) {
	codec := testCodec(t)

	raw, err := codec.IssueUserToken(42, "Ada Lovelace", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)

	require.NotNil(t, claims.UserID)
	assert.Equal(t, int64(42), *claims.UserID)
	assert.Empty(t, claims.ClientID)
	assert.Equal(t, "Ada Lovelace", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestIssueApplicationToken_RoundTrip(t *testing.T) {
	codec := testCodec(t)

	raw, err := codec.IssueApplicationToken("client-abc", "Billing Service", time.Hour)
	require.NoError(t, err)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)

	assert.Nil(t, claims.UserID)
	assert.Equal(t, "client-abc", claims.ClientID)
	assert.Equal(t, "Billing Service", claims.Subject)
}

func TestVerify_Expired(t *testing.T) {
	codec := testCodec(t)

	raw, err := codec.IssueUserToken(7, "expired", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	codec := testCodec(t)

	for _, raw := range []string{"", "garbage", "a.b.c", "header.payload"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, token.ErrInvalidToken, "input %q", raw)
	}
}

func TestVerify_Tampered(t *testing.T) {
	codec := testCodec(t)

	raw, err := codec.IssueUserToken(7, "victim", time.Hour)
	require.NoError(t, err)

	tampered := raw[:len(raw)-4] + "AAAA"
	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_WrongKeyPair(t *testing.T) {
	codec := testCodec(t)
	other := testCodec(t)

	raw, err := other.IssueUserToken(7, "stranger", time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_RejectsNonRSAAlgorithm(t *testing.T) {
	codec := testCodec(t)

	// A structurally valid token signed with HS256 must never verify,
	// regardless of the key material used.
	userID := int64(7)
	hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		UserID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "confused",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := hmacToken.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_RejectsAlgNone(t *testing.T) {
	codec := testCodec(t)

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "none",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
