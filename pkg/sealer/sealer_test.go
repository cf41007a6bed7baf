package sealer

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	s, err := NewFromBase64(key)
	require.NoError(t, err)
	return s
}

func TestSealOpen_RoundTrip(t *testing.T) {
	s := newTestSealer(t)

	token, err := s.Seal("user-1|admin|1700000000")
	require.NoError(t, err)
	assert.NotContains(t, token, "user-1")

	plaintext, err := s.Open(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1|admin|1700000000", plaintext)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	s := newTestSealer(t)

	a, err := s.Seal("same")
	require.NoError(t, err)
	b, err := s.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_RejectsTampering(t *testing.T) {
	s := newTestSealer(t)
	token, err := s.Seal("user-1")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = s.Open(base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestOpen_RejectsGarbage(t *testing.T) {
	s := newTestSealer(t)

	for _, token := range []string{"", "not base64!!", "c2hvcnQ"} {
		_, err := s.Open(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
	}
}

func TestOpen_WrongKey(t *testing.T) {
	token, err := newTestSealer(t).Seal("user-1")
	require.NoError(t, err)

	_, err = newTestSealer(t).Open(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecodeKey(t *testing.T) {
	_, err := DecodeKey("%%%")
	assert.Error(t, err)

	_, err = DecodeKey(base64.StdEncoding.EncodeToString([]byte("too short")))
	assert.ErrorContains(t, err, "must be 32 bytes")

	key, err := GenerateKey()
	require.NoError(t, err)
	decoded, err := DecodeKey(key)
	require.NoError(t, err)
	assert.Len(t, decoded, KeySize)
}
