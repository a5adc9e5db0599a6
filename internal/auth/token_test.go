package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = Config{Secret: "test-secret", Issuer: "commutetrackr"}

func TestSignAndParse(t *testing.T) {
	token, err := Sign(testCfg, "strava-sync", time.Minute, time.Now())
	require.NoError(t, err)

	subject, err := Parse(token, testCfg)
	require.NoError(t, err)
	assert.Equal(t, "strava-sync", subject)
}

func TestParseRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := Sign(testCfg, "strava-sync", time.Minute, time.Now())
	require.NoError(t, err)

	_, err = Parse(token, Config{Secret: "other", Issuer: testCfg.Issuer})
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse(token, Config{Secret: testCfg.Secret, Issuer: "someone-else"})
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, err := Sign(testCfg, "strava-sync", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = Parse(expired, testCfg)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse("  ", testCfg)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	_, err = BearerToken("Basic abc")
	require.ErrorIs(t, err, ErrMissingToken)
}
