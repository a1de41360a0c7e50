package pagination_test

import (
	"testing"
	"time"

	"github.com/openstay/folio-engine/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateBasedTokenRoundTrip(t *testing.T) {
	original := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

	token := pagination.EncodeDateBasedToken(original)
	decoded, err := pagination.DecodeDateBasedToken(token)

	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestDecodeDateBasedToken_InvalidBase64(t *testing.T) {
	_, err := pagination.DecodeDateBasedToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeDateBasedToken_NotADate(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("definitely not a date")
	_, err := pagination.DecodeDateBasedToken(token)
	assert.Error(t, err)
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	createdAt := pagination.FormatTokenTime(time.Now().UTC())
	id := "9f2c1b34-7c2e-4b7d-9d5e-1a2b3c4d5e6f"

	token := pagination.EncodeMultiFieldToken(createdAt, id)
	fields, err := pagination.DecodeMultiFieldToken(token)

	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, createdAt, fields[0])
	assert.Equal(t, id, fields[1])
}

func TestMultiFieldToken_SingleField(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("only")
	fields, err := pagination.DecodeMultiFieldToken(token)

	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "only", fields[0])
}

func TestDecodeMultiFieldToken_InvalidBase64(t *testing.T) {
	_, err := pagination.DecodeMultiFieldToken("%%%")
	assert.Error(t, err)
}

func TestTokenTimeRoundTripKeepsNanoPrecision(t *testing.T) {
	original := time.Date(2026, 7, 1, 23, 59, 59, 987654321, time.UTC)

	parsed, err := pagination.ParseTokenTime(pagination.FormatTokenTime(original))

	require.NoError(t, err)
	assert.True(t, original.Equal(parsed), "want %s, got %s", original, parsed)
}

func TestParseTokenTime_Invalid(t *testing.T) {
	_, err := pagination.ParseTokenTime("garbage")
	assert.Error(t, err)
}
