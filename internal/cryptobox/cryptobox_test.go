package cryptobox

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	k, err := NewKey()
	require.NoError(t, err)
	assert.Len(t, k.Raw, KeySize)
	assert.Len(t, k.IV, IVSize)

	plain := []byte("%PDF-1.7 research article")
	ct, err := k.Seal(plain)
	require.NoError(t, err)
	assert.Len(t, ct, len(plain)+16)
	assert.False(t, bytes.Contains(ct, plain))

	parsed, err := ParseKey(k.EncodedKey(), k.EncodedIV())
	require.NoError(t, err)
	got, err := parsed.Open(ct)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestOpen_WrongKeyOrTamper(t *testing.T) {
	k, err := newKey(bytes.NewReader(bytes.Repeat([]byte{1}, KeySize+IVSize)))
	require.NoError(t, err)
	ct, err := k.Seal([]byte("secret"))
	require.NoError(t, err)

	other, err := newKey(bytes.NewReader(bytes.Repeat([]byte{2}, KeySize+IVSize)))
	require.NoError(t, err)
	_, err = other.Open(ct)
	assert.ErrorIs(t, err, ErrDecrypt)

	ct[0] ^= 0xff
	_, err = k.Open(ct)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestParseKey_Invalid(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("short"))
	iv := base64.StdEncoding.EncodeToString(make([]byte, IVSize))
	key := base64.StdEncoding.EncodeToString(make([]byte, KeySize))

	_, err := ParseKey(short, iv)
	assert.ErrorIs(t, err, ErrKeySize)
	_, err = ParseKey(key, short)
	assert.ErrorIs(t, err, ErrIVSize)
	_, err = ParseKey("!!", iv)
	assert.Error(t, err)
}

func TestNewKey_ShortEntropy(t *testing.T) {
	_, err := newKey(bytes.NewReader(make([]byte, 10)))
	assert.Error(t, err)
}
