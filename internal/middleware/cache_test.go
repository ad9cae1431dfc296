package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadCodec_RoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Custom":     []string{"a", "b"},
	}
	body := []byte(`{"hotels":[]}`)

	encoded, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestPayloadCodec_EmptyBody(t *testing.T) {
	encoded, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
}

func TestDecodePayload_Garbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	// Header length pointing past the buffer must not panic.
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 255, 255, 1, 2})
	assert.False(t, ok)
}
